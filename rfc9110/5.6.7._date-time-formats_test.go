package rfc9110

import (
	"testing"
	"time"
)

func TestHttpDateIMF(t *testing.T) {
	date, err := HttpDate("Sun, 06 Nov 1994 08:49:37 GMT")
	if err != nil {
		t.Fatalf("Error parsing date %+v", err)
	}
	if !date.Equal(time.Date(1994, 11, 6, 8, 49, 37, 0, time.UTC)) {
		t.Fatalf("Date is %v", date)
	}
}

func TestHttpDateRFC850(t *testing.T) {
	date, err := HttpDate("Sunday, 06-Nov-94 08:49:37 GMT")
	if err != nil {
		t.Fatalf("Error parsing date %+v", err)
	}
	if date.Year() != 1994 {
		t.Fatalf("Year is %d", date.Year())
	}
}

func TestHttpDateANSIC(t *testing.T) {
	date, err := HttpDate("Sun Nov  6 08:49:37 1994")
	if err != nil {
		t.Fatalf("Error parsing date %+v", err)
	}
	if date.Day() != 6 || date.Hour() != 8 {
		t.Fatalf("Date is %v", date)
	}
}

func TestHttpDateTZCase(t *testing.T) {
	_, err := HttpDate("Thu, 18 Aug 2050 02:01:18 gMT")
	if err != nil {
		t.Fatalf("Error parsing date %+v", err)
	}
}

func TestHttpDateRejectsOtherZones(t *testing.T) {
	if _, err := HttpDate("Sun, 06 Nov 1994 08:49:37 CET"); err == nil {
		t.Fatal("Date in CET accepted")
	}
	if _, err := HttpDate("yesterday"); err == nil {
		t.Fatal("Garbage accepted")
	}
}

func TestToHttpDate(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	s := ToHttpDate(time.Date(1994, 11, 6, 9, 49, 37, 0, cet))
	if s != "Sun, 06 Nov 1994 08:49:37 GMT" {
		t.Fatalf("Formatted date is %s", s)
	}
	if parsed, err := HttpDate(s); err != nil || parsed.Unix() != 784111777 {
		t.Fatalf("Round trip failed: %v %v", parsed, err)
	}
}
