package driver

import (
	"github.com/NotrixInc/nx-equipment-driver/driverrpc"
)

// Wire types are owned by driverrpc; the aliases keep driver code readable.
type (
	Equipment     = driverrpc.Equipment
	Status        = driverrpc.Status
	Exception     = driverrpc.Exception
	ParameterData = driverrpc.ParameterData
)

// TimestampLayout is used for every timestamp the driver emits or accepts.
const TimestampLayout = "2006-01-02 15:04:05"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParameterSetKey selects a named bundle of parameters.
type ParameterSetKey string

const (
	SetAllData         ParameterSetKey = "AllData"
	SetTemperatureData ParameterSetKey = "TemperatureData"
)

// Parameter keys declared in the equipment manifest.
const (
	ParamLaserTemperature = "current_laser_temperature"
	ParamLaserPower       = "current_laser_power"
)

// Status messages returned by the protocol handler.
const (
	DriverStatusMessage = "The equipment driver is running properly."
	MessageOperational  = "operational"
	MessageUnreachable  = "unreachable"
)
