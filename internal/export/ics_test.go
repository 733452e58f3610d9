package export

import (
	"strings"
	"testing"
	"time"

	"github.com/erazemk/izposoja/internal/model"
)

var stamp = time.Date(2024, time.March, 1, 8, 30, 0, 0, time.UTC)

func TestWriteICS(t *testing.T) {
	reservations := []model.Reservation{
		{ID: "R101", Date: model.NewDate(2024, time.March, 31), ItemName: "Canon EOS R", Type: "Camera", EmployeeID: "E001", Status: model.StatusPending},
		{ID: "R102", Date: model.NewDate(2024, time.March, 5), ItemName: "Laptop, Dell", Type: "Laptop", EmployeeID: "E002", Status: model.StatusReturned, ReturnDate: model.NewDate(2024, time.March, 6)},
	}

	var sb strings.Builder
	if err := WriteICS(&sb, "Reservations", reservations, stamp); err != nil {
		t.Fatalf("WriteICS: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"PRODID:" + ICSProductID + "\r\n",
		"X-WR-CALNAME:Reservations\r\n",
		"UID:R101@izposoja\r\n",
		"DTSTAMP:20240301T083000Z\r\n",
		"DTSTART;VALUE=DATE:20240331\r\n",
		"DTEND;VALUE=DATE:20240401\r\n",
		"SUMMARY:Canon EOS R (E001)\r\n",
		`SUMMARY:Laptop\, Dell (E002)` + "\r\n",
		"returned 2024-03-06",
		"CATEGORIES:Returned\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}

	if n := strings.Count(out, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("expected 2 events, got %d", n)
	}
	if !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Error("expected calendar to be closed")
	}
}

func TestWriteICSEmpty(t *testing.T) {
	var sb strings.Builder
	if err := WriteICS(&sb, "Empty", nil, stamp); err != nil {
		t.Fatalf("WriteICS: %v", err)
	}
	if strings.Contains(sb.String(), "VEVENT") {
		t.Error("expected no events")
	}
}
