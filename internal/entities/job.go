package entities

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

type JobStatus string

const (
	JobActive   JobStatus = "active"
	JobArchived JobStatus = "archived"
)

func ToJobStatus(s string) (JobStatus, error) {
	switch s {
	case string(JobActive):
		return JobActive, nil
	case string(JobArchived):
		return JobArchived, nil
	default:
		return "", errors.New("invalid job status")
	}
}

type Job struct {
	ID        int       `json:"id"`
	Title     string    `gorm:"index" json:"title" validate:"required,max=200"`
	Slug      string    `gorm:"uniqueIndex" json:"slug" validate:"required"`
	Status    JobStatus `gorm:"index" json:"status" validate:"oneof=active archived"`
	Order     int64     `gorm:"index" json:"order"`
	Tags      []string  `gorm:"serializer:json" json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewJob builds an active job ranked at the top of the list as of now.
func NewJob(title string, tags []string, now time.Time) Job {
	title = strings.TrimSpace(title)
	return Job{
		Title:     title,
		Slug:      Slugify(title),
		Status:    JobActive,
		Order:     now.UnixMilli(),
		Tags:      NormalizeTags(tags),
		CreatedAt: now,
	}
}

func (j Job) Clone() Job {
	j.Tags = slices.Clone(j.Tags)
	return j
}

func (j Job) HasTagLike(fragment string) bool {
	fragment = strings.ToLower(fragment)
	return lo.ContainsBy(j.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), fragment)
	})
}

var (
	whitespace   = regexp.MustCompile(`\s+`)
	nonSlugChars = regexp.MustCompile(`[^\w-]`)
)

func Slugify(title string) string {
	str := strings.ToLower(strings.TrimSpace(title))
	str = whitespace.ReplaceAllString(str, "-")
	return nonSlugChars.ReplaceAllString(str, "")
}

func NormalizeTags(tags []string) []string {
	trimmed := lo.Map(tags, func(tag string, _ int) string {
		return strings.TrimSpace(tag)
	})
	return lo.Uniq(lo.Compact(trimmed))
}

// JobPatch holds the fields an update changes; nil fields are left alone.
type JobPatch struct {
	Title  *string
	Status *JobStatus
	Tags   *[]string
}

func (p JobPatch) IsEmpty() bool {
	return p.Title == nil && p.Status == nil && p.Tags == nil
}

// Apply merges the patch into job. A new title also renames the slug.
func (p JobPatch) Apply(job Job) Job {
	job = job.Clone()
	if p.Title != nil {
		job.Title = strings.TrimSpace(*p.Title)
		job.Slug = Slugify(job.Title)
	}
	if p.Status != nil {
		job.Status = *p.Status
	}
	if p.Tags != nil {
		job.Tags = NormalizeTags(*p.Tags)
	}
	return job
}

func (p JobPatch) Columns() []string {
	var columns []string
	if p.Title != nil {
		columns = append(columns, "title", "slug")
	}
	if p.Status != nil {
		columns = append(columns, "status")
	}
	if p.Tags != nil {
		columns = append(columns, "tags")
	}
	return columns
}
