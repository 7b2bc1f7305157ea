package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

var (
	sessionStart = time.Now()
	shortUnits   durafmt.Units
)

func init() {
	shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")
}

// statsLine summarizes the session for the overlay: uptime, traffic and
// how many travelers are around.
func statsLine() string {
	up := durafmt.Parse(time.Since(sessionStart).Round(time.Second)).LimitFirstN(2).Format(shortUnits)
	return fmt.Sprintf("up %s  sent %s  recv %s  peers %d",
		up,
		humanize.Bytes(bytesSent.Load()),
		humanize.Bytes(bytesRecv.Load()),
		playerCount())
}
