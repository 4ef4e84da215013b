package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ToolPrefix marks entries in an activity's response map that were produced by
// an interactive lesson tool. Entries without the prefix are free-form answers
// and never contribute to impact aggregation.
const ToolPrefix = "tool_"

// ToolPayload is the structured result saved by an in-lesson widget
// (calculator, checklist, uploader).
type ToolPayload struct {
	ToolType string                 `json:"tool_type"`
	Data     map[string]interface{} `json:"data"`
	SavedAt  time.Time              `json:"saved_at"`
}

// ResponseValue is one entry of an activity's response map. Tool entries carry
// a payload; plain answers only carry Answer.
type ResponseValue struct {
	Answer interface{}  `json:"answer,omitempty"`
	Tool   *ToolPayload `json:"tool,omitempty"`
}

// UnmarshalJSON accepts both the tagged form ({"tool": {...}} / {"answer": x})
// and bare scalar answers left over from older clients.
func (v *ResponseValue) UnmarshalJSON(data []byte) error {
	type alias ResponseValue
	var a alias
	if err := json.Unmarshal(data, &a); err == nil && (a.Tool != nil || a.Answer != nil) {
		*v = ResponseValue(a)
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.Answer = raw
	v.Tool = nil
	return nil
}

// ResponseMap is stored as a single JSONB column.
type ResponseMap map[string]ResponseValue

func (m ResponseMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *ResponseMap) Scan(value interface{}) error {
	if value == nil {
		*m = ResponseMap{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported type for ResponseMap")
	}
	return json.Unmarshal(b, m)
}

type ActivityResponse struct {
	gorm.Model
	EnrollmentID uint        `gorm:"index;not null"`
	LessonID     uint        `gorm:"index;not null"`
	Responses    ResponseMap `gorm:"type:jsonb"`
}

// ToolResult is the extracted view of one tool entry. It is recomputed on
// every report request and never persisted.
type ToolResult struct {
	ToolName string                 `json:"tool_name"`
	ToolType string                 `json:"tool_type"`
	Data     map[string]interface{} `json:"data"`
	SavedAt  time.Time              `json:"saved_at"`
	LessonID uint                   `json:"lesson_id"`
	UserID   uint                   `json:"user_id,omitempty"`
}

// ToolResults extracts the tool entries of this activity, sorted by tool name
// so repeated report generations stay byte-identical. Keys without the tool_
// prefix are skipped even if they carry a payload, so stray data cannot
// inflate impact figures.
func (a *ActivityResponse) ToolResults() []ToolResult {
	var results []ToolResult
	for key, value := range a.Responses {
		if !strings.HasPrefix(key, ToolPrefix) || value.Tool == nil {
			continue
		}
		results = append(results, ToolResult{
			ToolName: strings.TrimPrefix(key, ToolPrefix),
			ToolType: value.Tool.ToolType,
			Data:     value.Tool.Data,
			SavedAt:  value.Tool.SavedAt,
			LessonID: a.LessonID,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ToolName < results[j].ToolName })
	return results
}
