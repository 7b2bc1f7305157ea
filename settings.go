package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

type Settings struct {
	Scale        int    `json:"scale"`
	Vsync        bool   `json:"vsync"`
	PlayerName   string `json:"playerName"`
	LastHost     string `json:"lastHost"`
	DiscordRPC   bool   `json:"discordRPC"`
	ChatFontSize int    `json:"chatFontSize"`
}

var gs = Settings{
	Scale:        3,
	Vsync:        true,
	PlayerName:   "RED",
	LastHost:     "localhost:8213",
	ChatFontSize: 13,
}

func loadSettings() bool {
	path := filepath.Join(baseDir, "settings.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return false
	}
	gs = s
	if gs.Scale < 1 {
		gs.Scale = 3
	}
	if gs.PlayerName == "" {
		gs.PlayerName = "RED"
	}
	if gs.ChatFontSize == 0 {
		gs.ChatFontSize = 13
	}
	return true
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		log.Printf("save settings: %v", err)
		return
	}
	path := filepath.Join(baseDir, "settings.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("save settings: %v", err)
	}
}
