// Package timezone fixes the wall clock of the hostels. Booking days, stay lengths and the
// dashboard's "today" are all counted in the IANA zone named by APP_TIMEZONE, loaded once on
// import. An unset or unknown zone falls back to UTC with a log line.
//
//	today := availability.Day(timezone.Now())
//	from, err := timezone.Parse(time.DateOnly, "2025-03-01") // local midnight
package timezone
