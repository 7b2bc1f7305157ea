package main

import (
	"context"
	"fmt"
	"time"

	client "github.com/hugolgst/rich-go/client"
)

// initDiscordRPC publishes the session as a Discord activity and keeps the
// peer count in it fresh until the context ends.
func initDiscordRPC(ctx context.Context) {
	if err := client.Login("1409822716520331274"); err != nil {
		logError("discord rpc login: %v", err)
		return
	}
	start := time.Now()
	setDiscordActivity(start)

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				client.Logout()
				return
			case <-ticker.C:
				setDiscordActivity(start)
			}
		}
	}()
}

func setDiscordActivity(start time.Time) {
	details := "Wandering alone"
	if n := playerCount(); n > 0 {
		details = fmt.Sprintf("Wandering with %d others", n)
	}
	if err := client.SetActivity(client.Activity{
		State:   "GBLink",
		Details: details,
		Timestamps: &client.Timestamps{
			Start: &start,
		},
	}); err != nil {
		logError("discord rpc activity: %v", err)
	}
}
