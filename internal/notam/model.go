package notam

import (
	"github.com/mohae/deepcopy"
)

type MessageType string

const (
	MessageNew     MessageType = "NOTAMN"
	MessageReplace MessageType = "NOTAMR"
	MessageCancel  MessageType = "NOTAMC"
)

// MessageTypes lists the message types offered to the user, in display order.
var MessageTypes = []MessageType{MessageNew, MessageReplace, MessageCancel}

func (mt MessageType) String() string {
	return string(mt)
}

// Schedule is item D. Times are stored as HHmm.
type Schedule struct {
	Frequency string `json:"frequency" yaml:"frequency"`
	StartTime string `json:"startTime" yaml:"startTime"`
	EndTime   string `json:"endTime" yaml:"endTime"`
}

// Complete reports whether the schedule may be rendered as a D) line.
func (s Schedule) Complete() bool {
	return s.Frequency != "" && s.StartTime != "" && s.EndTime != ""
}

// Details holds the subject dependent fields used to build item E.
// Lighting is a pointer so that "not set" survives an export round trip.
type Details struct {
	Designator     string `json:"designator,omitempty" yaml:"designator,omitempty"`
	NavaidID       string `json:"navaidId,omitempty" yaml:"navaidId,omitempty"`
	AirspaceName   string `json:"airspaceName,omitempty" yaml:"airspaceName,omitempty"`
	AirspaceCoords string `json:"airspaceCoords,omitempty" yaml:"airspaceCoords,omitempty"`
	ObstacleType   string `json:"obstacleType,omitempty" yaml:"obstacleType,omitempty"`
	ObstacleCoords string `json:"obstacleCoords,omitempty" yaml:"obstacleCoords,omitempty"`
	ObstacleHeight string `json:"obstacleHeight,omitempty" yaml:"obstacleHeight,omitempty"`
	Lighting       *bool  `json:"lighting,omitempty" yaml:"lighting,omitempty"`
}

// Lit reports whether the obstacle is flagged as lighted.
func (d Details) Lit() bool {
	return d.Lighting != nil && *d.Lighting
}

// Record is a single NOTAM being edited.
type Record struct {
	MessageType    MessageType `json:"messageType" yaml:"messageType"`
	ReferenceNotam string      `json:"referenceNotam" yaml:"referenceNotam"`
	Category       string      `json:"category" yaml:"category"`
	Subject        string      `json:"subject" yaml:"subject"`
	Condition      string      `json:"condition" yaml:"condition"`
	ItemALocation  string      `json:"itemA_location" yaml:"itemA_location"`
	ItemBStart     string      `json:"itemB_start" yaml:"itemB_start"`
	ItemCEnd       string      `json:"itemC_end" yaml:"itemC_end"`
	ItemDSchedule  Schedule    `json:"itemD_schedule" yaml:"itemD_schedule"`
	ItemEText      string      `json:"itemE_text" yaml:"itemE_text"`
	ItemFLower     string      `json:"itemF_lower" yaml:"itemF_lower"`
	ItemGUpper     string      `json:"itemG_upper" yaml:"itemG_upper"`
	Details        Details     `json:"details" yaml:"details"`
}

var defaultRecord = Record{
	MessageType: MessageNew,
	ItemFLower:  "000",
	ItemGUpper:  "999",
}

// Default returns a fresh copy of the record every session starts from.
func Default() Record {
	return defaultRecord.Clone()
}

// Clone returns a deep copy; nothing nested is shared with r.
func (r Record) Clone() Record {
	return deepcopy.Copy(r).(Record)
}

// Template is a named partial record used to prefill a session.
type Template struct {
	Key  string       `json:"key" yaml:"key"`
	Name string       `json:"name" yaml:"name"`
	Data TemplateData `json:"data" yaml:"data"`
}

type TemplateData struct {
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	Subject   string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	ItemEText string `json:"itemE_text,omitempty" yaml:"itemE_text,omitempty"`
}

// TemplateSource supplies templates by key. A missing key is not an error.
type TemplateSource interface {
	GetTemplate(key string) (Template, bool)
}
