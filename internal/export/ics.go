// Package export writes reservations in calendar interchange formats.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/erazemk/izposoja/internal/model"
)

// ICSProductID identifies the generator in exported calendars.
const ICSProductID = "-//izposoja//Reservations//EN"

// ICSContentType is the MIME type of an ICS document.
const ICSContentType = "text/calendar; charset=utf-8"

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// WriteICS writes reservations as all-day events of an iCalendar document
// named name. stamp is used as DTSTAMP of every event.
func WriteICS(w io.Writer, name string, reservations []model.Reservation, stamp time.Time) error {
	bw := bufio.NewWriter(w)
	line := func(format string, args ...any) {
		fmt.Fprintf(bw, format+"\r\n", args...)
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", ICSProductID)
	line("CALSCALE:GREGORIAN")
	line("X-WR-CALNAME:%s", icsEscaper.Replace(name))

	dtstamp := stamp.UTC().Format("20060102T150405Z")
	for _, r := range reservations {
		if r.Date.IsZero() {
			continue
		}
		line("BEGIN:VEVENT")
		line("UID:%s@izposoja", r.ID)
		line("DTSTAMP:%s", dtstamp)
		line("DTSTART;VALUE=DATE:%s", r.Date.Time().Format("20060102"))
		line("DTEND;VALUE=DATE:%s", r.Date.AddDays(1).Time().Format("20060102"))
		line("SUMMARY:%s", icsEscaper.Replace(fmt.Sprintf("%s (%s)", r.ItemName, r.EmployeeID)))
		desc := fmt.Sprintf("Reservation %s: %s %s for %s, status %s", r.ID, r.Type, r.ItemName, r.EmployeeID, r.Status)
		if !r.ReturnDate.IsZero() {
			desc += ", returned " + r.ReturnDate.Key()
		}
		line("DESCRIPTION:%s", icsEscaper.Replace(desc))
		line("CATEGORIES:%s", icsEscaper.Replace(string(r.Status)))
		line("END:VEVENT")
	}

	line("END:VCALENDAR")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}
