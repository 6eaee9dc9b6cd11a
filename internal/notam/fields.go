package notam

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrDetailValueType = errors.New("invalid detail value type")
)

// Field names a scalar top-level record field. The names match the export keys.
type Field string

const (
	FieldMessageType    Field = "messageType"
	FieldReferenceNotam Field = "referenceNotam"
	FieldCategory       Field = "category"
	FieldSubject        Field = "subject"
	FieldCondition      Field = "condition"
	FieldLocation       Field = "itemA_location"
	FieldStart          Field = "itemB_start"
	FieldEnd            Field = "itemC_end"
	FieldEText          Field = "itemE_text"
	FieldLower          Field = "itemF_lower"
	FieldUpper          Field = "itemG_upper"
)

var fields = []Field{
	FieldMessageType, FieldReferenceNotam, FieldCategory, FieldSubject, FieldCondition,
	FieldLocation, FieldStart, FieldEnd, FieldEText, FieldLower, FieldUpper,
}

type DetailField string

const (
	DetailDesignator     DetailField = "designator"
	DetailNavaidID       DetailField = "navaidId"
	DetailAirspaceName   DetailField = "airspaceName"
	DetailAirspaceCoords DetailField = "airspaceCoords"
	DetailObstacleType   DetailField = "obstacleType"
	DetailObstacleCoords DetailField = "obstacleCoords"
	DetailObstacleHeight DetailField = "obstacleHeight"
	DetailLighting       DetailField = "lighting"
)

var detailFields = []DetailField{
	DetailDesignator, DetailNavaidID, DetailAirspaceName, DetailAirspaceCoords,
	DetailObstacleType, DetailObstacleCoords, DetailObstacleHeight, DetailLighting,
}

type ScheduleField string

const (
	ScheduleFrequency ScheduleField = "frequency"
	ScheduleStartTime ScheduleField = "startTime"
	ScheduleEndTime   ScheduleField = "endTime"
)

var scheduleFields = []ScheduleField{ScheduleFrequency, ScheduleStartTime, ScheduleEndTime}

func ParseField(name string) (Field, error) {
	for _, f := range fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func ParseDetailField(name string) (DetailField, error) {
	for _, f := range detailFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: details.%q", ErrUnknownField, name)
}

func ParseScheduleField(name string) (ScheduleField, error) {
	for _, f := range scheduleFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: itemD_schedule.%q", ErrUnknownField, name)
}

// Fields returns the names accepted by ParseField.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

func DetailFields() []DetailField {
	return append([]DetailField(nil), detailFields...)
}

func ScheduleFields() []ScheduleField {
	return append([]ScheduleField(nil), scheduleFields...)
}

// set assigns value to the field f of r.
func (f Field) set(r *Record, value string) error {
	switch f {
	case FieldMessageType:
		r.MessageType = MessageType(value)
	case FieldReferenceNotam:
		r.ReferenceNotam = value
	case FieldCategory:
		r.Category = value
	case FieldSubject:
		r.Subject = value
	case FieldCondition:
		r.Condition = value
	case FieldLocation:
		r.ItemALocation = value
	case FieldStart:
		r.ItemBStart = value
	case FieldEnd:
		r.ItemCEnd = value
	case FieldEText:
		r.ItemEText = value
	case FieldLower:
		r.ItemFLower = value
	case FieldUpper:
		r.ItemGUpper = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return nil
}

func (f DetailField) set(d *Details, value any) error {
	if f == DetailLighting {
		lit, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: lighting wants bool, got %T", ErrDetailValueType, value)
		}
		d.Lighting = &lit
		return nil
	}

	text, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %s wants string, got %T", ErrDetailValueType, string(f), value)
	}

	switch f {
	case DetailDesignator:
		d.Designator = text
	case DetailNavaidID:
		d.NavaidID = text
	case DetailAirspaceName:
		d.AirspaceName = text
	case DetailAirspaceCoords:
		d.AirspaceCoords = text
	case DetailObstacleType:
		d.ObstacleType = text
	case DetailObstacleCoords:
		d.ObstacleCoords = text
	case DetailObstacleHeight:
		d.ObstacleHeight = text
	default:
		return fmt.Errorf("%w: details.%q", ErrUnknownField, string(f))
	}
	return nil
}

func (f ScheduleField) set(s *Schedule, value string) error {
	switch f {
	case ScheduleFrequency:
		s.Frequency = value
	case ScheduleStartTime:
		s.StartTime = value
	case ScheduleEndTime:
		s.EndTime = value
	default:
		return fmt.Errorf("%w: itemD_schedule.%q", ErrUnknownField, string(f))
	}
	return nil
}
