package model

import (
	"crypto/subtle"
	"time"
)

// TimeLayout is the upload time format: ISO 8601 in UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FileRecord описывает загруженный файл. Запись неизменяема после создания.
type FileRecord struct {
	Name     string `json:"name"`
	Stored   string `json:"stored"`
	Size     int64  `json:"size"`
	Device   string `json:"device"`
	Nickname string `json:"nickname"`
	PIN      string `json:"-"`
	Time     string `json:"time"`
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// MatchPIN reports whether pin unlocks the record.
func (f *FileRecord) MatchPIN(pin string) bool {
	return subtle.ConstantTimeCompare([]byte(f.PIN), []byte(pin)) == 1
}
