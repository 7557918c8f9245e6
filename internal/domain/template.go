package domain

import "time"

// FieldType enumerates the value kinds a template field accepts.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeBoolean FieldType = "boolean"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeBoolean:
		return true
	}
	return false
}

// FieldDefinition describes one field a template expects to be extracted.
type FieldDefinition struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
}

// Template is a reusable set of field definitions applied to documents.
type Template struct {
	ID          string
	Name        string
	Description string
	Fields      []FieldDefinition
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Field returns the definition with the given name.
func (t *Template) Field(name string) (FieldDefinition, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}
