package models

// FormatType describes how an attribute value is entered and rendered.
// The set mirrors the field types offered by the admin configuration UI.
type FormatType string

const (
	FormatText        FormatType = "text"
	FormatTextarea    FormatType = "textarea"
	FormatNumber      FormatType = "number"
	FormatMoney       FormatType = "money"
	FormatToggle      FormatType = "toggle"
	FormatSelect      FormatType = "select"
	FormatMultiselect FormatType = "multiselect"
	FormatDate        FormatType = "date"
	FormatLink        FormatType = "link"
	FormatButton      FormatType = "button"
)

// validFormatTypes is the closed set accepted from callers.
var validFormatTypes = map[FormatType]bool{
	FormatText:        true,
	FormatTextarea:    true,
	FormatNumber:      true,
	FormatMoney:       true,
	FormatToggle:      true,
	FormatSelect:      true,
	FormatMultiselect: true,
	FormatDate:        true,
	FormatLink:        true,
	FormatButton:      true,
}

// Valid reports whether ft is a known format type.
func (ft FormatType) Valid() bool {
	return validFormatTypes[ft]
}

// DefaultValue returns the value a record receives when an attribute of
// this format is added to it: false for toggles, zero for numeric formats,
// an empty list for multi-valued formats, and an empty string otherwise.
func (ft FormatType) DefaultValue() Value {
	switch ft {
	case FormatToggle:
		return BoolValue(false)
	case FormatNumber, FormatMoney:
		return NumberValue(0)
	case FormatMultiselect:
		return ListValue()
	default:
		return StringValue("")
	}
}
