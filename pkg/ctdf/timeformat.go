package ctdf

const (
	TimestampFormat = "2006-01-02 15:04:05"
	DateFormat      = "2006-01-02"
	ClockFormat     = "15:04"
)
