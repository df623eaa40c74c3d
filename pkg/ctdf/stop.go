package ctdf

type Stop struct {
	Name     string `json:"stop_name" yaml:"stop_name" groups:"basic"`
	Location string `json:"location" yaml:"location" groups:"basic"`

	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty" groups:"basic"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty" groups:"basic"`
}

func (s *Stop) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
