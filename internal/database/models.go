package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Report struct {
	ResumeID  uuid.UUID
	Score     int32
	Details   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Resume struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	FilePath         string
	OriginalFilename string
	ParsedText       string
	Skills           string
	Certifications   string
	Education        string
	Projects         int32
	Profile          json.RawMessage
	CandidateSummary sql.NullString
	Status           string
	UploadedAt       time.Time
}
