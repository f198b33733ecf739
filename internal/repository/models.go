package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/stamp/pkg/model"
)

// Member kinds stored in member_mappings.kind.
const (
	memberKindField  = "field"
	memberKindMethod = "method"
)

// MappingSession represents the mapping_sessions table.
type MappingSession struct {
	ID              string            `gorm:"column:id;type:varchar(64);primaryKey"`
	CreatedAt       time.Time         `gorm:"column:created_at;index"`
	ClassCount      int               `gorm:"column:class_count"`
	ObfuscatedCount int               `gorm:"column:obfuscated_count"`
	LibraryCount    int               `gorm:"column:library_count"`
	FieldCount      int               `gorm:"column:field_count"`
	MethodCount     int               `gorm:"column:method_count"`
	PreservedCount  int               `gorm:"column:preserved_count"`
	Classes         []ClassMappingRow `gorm:"foreignKey:SessionID;references:ID"`
}

// TableName returns the table name for MappingSession.
func (MappingSession) TableName() string {
	return "mapping_sessions"
}

// ClassMappingRow represents the class_mappings table.
type ClassMappingRow struct {
	ID         int64              `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID  string             `gorm:"column:session_id;type:varchar(64);index"`
	Seq        int                `gorm:"column:seq"`
	Name       string             `gorm:"column:name;type:varchar(512)"`
	ObfName    string             `gorm:"column:obf_name;type:varchar(512)"`
	Parent     string             `gorm:"column:parent;type:varchar(512)"`
	Interfaces StringList         `gorm:"column:interfaces;type:text"`
	Library    bool               `gorm:"column:library"`
	Members    []MemberMappingRow `gorm:"foreignKey:ClassID;references:ID"`
}

// TableName returns the table name for ClassMappingRow.
func (ClassMappingRow) TableName() string {
	return "class_mappings"
}

// MemberMappingRow represents the member_mappings table.
type MemberMappingRow struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ClassID   int64  `gorm:"column:class_id;index"`
	SessionID string `gorm:"column:session_id;type:varchar(64);index"`
	Kind      string `gorm:"column:kind;type:varchar(8)"`
	Seq       int    `gorm:"column:seq"`
	Name      string `gorm:"column:name;type:varchar(255)"`
	Desc      string `gorm:"column:descriptor;type:text"`
	ObfName   string `gorm:"column:obf_name;type:varchar(255)"`
	Preserved bool   `gorm:"column:preserved"`
}

// TableName returns the table name for MemberMappingRow.
func (MemberMappingRow) TableName() string {
	return "member_mappings"
}

// StringList is a []string stored as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("type assertion to []byte or string failed")
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		out = nil
	}
	*l = out
	return nil
}

// newMappingSession converts a snapshot into rows.
func newMappingSession(snap *model.MappingSnapshot) *MappingSession {
	row := &MappingSession{
		ID:              snap.ID,
		CreatedAt:       snap.CreatedAt,
		ClassCount:      snap.Stats.Classes,
		ObfuscatedCount: snap.Stats.Obfuscated,
		LibraryCount:    snap.Stats.Library,
		FieldCount:      snap.Stats.Fields,
		MethodCount:     snap.Stats.Methods,
		PreservedCount:  snap.Stats.Preserved,
		Classes:         make([]ClassMappingRow, 0, len(snap.Classes)),
	}

	for i, c := range snap.Classes {
		cr := ClassMappingRow{
			SessionID:  snap.ID,
			Seq:        i,
			Name:       c.Name,
			ObfName:    c.ObfName,
			Parent:     c.Parent,
			Interfaces: StringList(c.Interfaces),
			Library:    c.Library,
		}
		for j, f := range c.Fields {
			cr.Members = append(cr.Members, newMemberRow(snap.ID, memberKindField, j, f))
		}
		for j, m := range c.Methods {
			cr.Members = append(cr.Members, newMemberRow(snap.ID, memberKindMethod, j, m))
		}
		row.Classes = append(row.Classes, cr)
	}
	return row
}

func newMemberRow(sessionID, kind string, seq int, e model.MemberEntry) MemberMappingRow {
	return MemberMappingRow{
		SessionID: sessionID,
		Kind:      kind,
		Seq:       seq,
		Name:      e.Name,
		Desc:      e.Desc,
		ObfName:   e.ObfName,
		Preserved: e.Preserved,
	}
}

// ToModel converts the rows back into a snapshot. Classes and members must
// be loaded in seq order.
func (s *MappingSession) ToModel() *model.MappingSnapshot {
	snap := &model.MappingSnapshot{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Stats: model.Stats{
			Classes:    s.ClassCount,
			Obfuscated: s.ObfuscatedCount,
			Library:    s.LibraryCount,
			Fields:     s.FieldCount,
			Methods:    s.MethodCount,
			Preserved:  s.PreservedCount,
		},
	}

	for _, cr := range s.Classes {
		c := model.ClassEntry{
			Name:       cr.Name,
			ObfName:    cr.ObfName,
			Parent:     cr.Parent,
			Interfaces: []string(cr.Interfaces),
			Library:    cr.Library,
		}
		for _, mr := range cr.Members {
			e := model.MemberEntry{
				Name:      mr.Name,
				Desc:      mr.Desc,
				ObfName:   mr.ObfName,
				Preserved: mr.Preserved,
			}
			if mr.Kind == memberKindField {
				c.Fields = append(c.Fields, e)
			} else {
				c.Methods = append(c.Methods, e)
			}
		}
		snap.Classes = append(snap.Classes, c)
	}
	return snap
}

// AllModels lists every table model for migrations.
func AllModels() []interface{} {
	return []interface{}{&MappingSession{}, &ClassMappingRow{}, &MemberMappingRow{}}
}
