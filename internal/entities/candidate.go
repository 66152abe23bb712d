package entities

import (
	"errors"
	"slices"
	"strings"
	"time"
)

type Stage string

const (
	StageApplied   Stage = "Applied"
	StageScreening Stage = "Screening"
	StageInterview Stage = "Interview"
	StageOffer     Stage = "Offer"
	StageHired     Stage = "Hired"
	StageRejected  Stage = "Rejected"
)

// Stages lists the pipeline in board order.
var Stages = []Stage{StageApplied, StageScreening, StageInterview, StageOffer, StageHired, StageRejected}

func ToStage(s string) (Stage, error) {
	for _, stage := range Stages {
		if string(stage) == s {
			return stage, nil
		}
	}
	return "", errors.New("invalid candidate stage")
}

type TimelineEntry struct {
	Stage Stage     `json:"stage"`
	Date  time.Time `json:"date"`
	Note  string    `json:"note,omitempty"`
}

func NewTimelineEntry(stage Stage, note string, now time.Time) TimelineEntry {
	entry := TimelineEntry{Stage: stage, Date: now}
	if note = strings.TrimSpace(note); note != "" {
		entry.Note = note
	}
	return entry
}

type Note struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Candidate.JobID is a lookup-only reference; the job may be gone.
type Candidate struct {
	ID       int             `json:"id"`
	Name     string          `gorm:"index" json:"name"`
	Email    string          `gorm:"index" json:"email"`
	Stage    Stage           `gorm:"index" json:"stage"`
	JobID    int             `json:"jobId"`
	Timeline []TimelineEntry `gorm:"serializer:json" json:"timeline"`
	Notes    []Note          `gorm:"serializer:json" json:"notes"`
}

func (c Candidate) Clone() Candidate {
	c.Timeline = slices.Clone(c.Timeline)
	c.Notes = slices.Clone(c.Notes)
	return c
}

func (c *Candidate) MoveTo(stage Stage, note string, now time.Time) {
	c.Stage = stage
	c.Timeline = append(c.Timeline, NewTimelineEntry(stage, note, now))
}

func (c *Candidate) Matches(search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), search) ||
		strings.Contains(strings.ToLower(c.Email), search)
}
