package entities

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Senior Go Developer", "senior-go-developer"},
		{"  Data   Analyst ", "data-analyst"},
		{"C++ / Rust Engineer!", "c--rust-engineer"},
		{"QA_Lead", "qa_lead"},
		{"???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.title))
		})
	}
}

func TestNewJob(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	job := NewJob("  Frontend Engineer ", []string{"Remote", " Remote", "", "Full-time"}, now)

	assert.Equal(t, "Frontend Engineer", job.Title)
	assert.Equal(t, "frontend-engineer", job.Slug)
	assert.Equal(t, JobActive, job.Status)
	assert.Equal(t, now.UnixMilli(), job.Order)
	assert.Equal(t, []string{"Remote", "Full-time"}, job.Tags)
	assert.Equal(t, now, job.CreatedAt)
}

func TestJobPatch_Apply(t *testing.T) {
	job := NewJob("Go Developer", []string{"Remote"}, time.Now())

	patched := JobPatch{Title: lo.ToPtr("Lead Go Developer"), Status: lo.ToPtr(JobArchived)}.Apply(job)

	assert.Equal(t, "Lead Go Developer", patched.Title)
	assert.Equal(t, "lead-go-developer", patched.Slug)
	assert.Equal(t, JobArchived, patched.Status)
	assert.Equal(t, []string{"Remote"}, patched.Tags)
	assert.Equal(t, "Go Developer", job.Title, "original job must not change")
}

func TestJobPatch_Columns(t *testing.T) {
	assert.True(t, JobPatch{}.IsEmpty())
	assert.Empty(t, JobPatch{}.Columns())
	assert.Equal(t, []string{"title", "slug", "tags"}, JobPatch{Title: lo.ToPtr("x"), Tags: &[]string{}}.Columns())
}

func TestJob_CloneDoesNotShareTags(t *testing.T) {
	job := NewJob("Designer", []string{"Remote"}, time.Now())
	clone := job.Clone()
	clone.Tags[0] = "Office"

	assert.Equal(t, "Remote", job.Tags[0])
}

func TestJob_HasTagLike(t *testing.T) {
	job := NewJob("Designer", []string{"Full-time", "Remote"}, time.Now())

	assert.True(t, job.HasTagLike("full"))
	assert.True(t, job.HasTagLike("MOTE"))
	assert.False(t, job.HasTagLike("part"))
}

func TestToJobStatus(t *testing.T) {
	status, err := ToJobStatus("archived")
	assert.NoError(t, err)
	assert.Equal(t, JobArchived, status)

	_, err = ToJobStatus("deleted")
	assert.Error(t, err)
}
