package dbtypes

import "database/sql/driver"

// SocialMedia holds a farm's public social links.
type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}

func (s SocialMedia) Value() (driver.Value, error) {
	return jsonValue(s)
}

func (s *SocialMedia) Scan(src any) error {
	return jsonScan(s, src)
}

// DayHours is an open/close pair for a single weekday.
type DayHours struct {
	Open  string `json:"open,omitempty"`
	Close string `json:"close,omitempty"`
}

// BusinessHours lists a farm's weekly opening hours.
type BusinessHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

func (b BusinessHours) Value() (driver.Value, error) {
	return jsonValue(b)
}

func (b *BusinessHours) Scan(src any) error {
	return jsonScan(b, src)
}
