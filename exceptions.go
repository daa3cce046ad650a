package driver

import "context"

// Defaults of the synthetic exception source.
const (
	SampleExceptionID   = 12416
	SampleExceptionName = "TutorialException"
)

// SyntheticExceptions reports one informational sample event per lookup. It
// stands in for the equipment's event log until a hardware driver is plugged in.
type SyntheticExceptions struct {
	Clock Clock
}

func (s SyntheticExceptions) Lookup(_ context.Context, eq Equipment, _ string) Exception {
	clock := s.Clock
	if clock == nil {
		clock = NewSystemClock()
	}
	return Exception{
		EquipmentId: eq.Id,
		Severity:    string(SeverityInfo),
		ExceptionId: SampleExceptionID,
		Name:        SampleExceptionName,
		Description: "This is an example exception.",
		RecordedAt:  clock.Now().Format(TimestampLayout),
	}
}

// missingEquipmentException is returned when a GetExceptions request carried
// no equipment. Callers should treat it as synthetic.
func missingEquipmentException(now string) Exception {
	return Exception{
		Severity:    string(SeverityError),
		Name:        "EquipmentRequired",
		Description: "The request did not identify any equipment.",
		RecordedAt:  now,
	}
}
