package driverrpc

// Message types for the nx.equipment.Driver service. They travel through the
// json codec registered in codec.go, so field tags define the wire names.

type Equipment struct {
	Id        uint32 `json:"id"`
	IpAddress string `json:"ip_address"`
}

type Status struct {
	Id      uint32 `json:"id"`
	Message string `json:"status"`
}

type Exception struct {
	EquipmentId uint32 `json:"equipment_id"`
	Severity    string `json:"severity"`
	ExceptionId uint32 `json:"exception_id"` // manufacturer-defined code
	Name        string `json:"name"`
	Description string `json:"description"`
	RecordedAt  string `json:"recorded_at"`
}

type ParameterData struct {
	EquipmentId  uint32 `json:"equipment_id"`
	ParameterKey string `json:"parameter_key"` // key declared in the parameter manifest
	Timestamp    string `json:"timestamp"`
	Value        string `json:"value"`
}

type GetDriverStatusRequest struct{}

type GetEquipmentStatusRequest struct {
	Equipment *Equipment `json:"equipment,omitempty"`
}

type GetStatusReply struct {
	Status  bool    `json:"status"`
	Details *Status `json:"details,omitempty"`
}

type GetExceptionsRequest struct {
	Equipment     *Equipment `json:"equipment,omitempty"`
	FromTimestamp string     `json:"from_timestamp,omitempty"`
}

type GetExceptionsReply struct {
	Exceptions []*Exception `json:"exceptions"`
}

type GetParameterDataRequest struct {
	Equipment     *Equipment `json:"equipment,omitempty"`
	ParameterKeys []string   `json:"parameter_keys,omitempty"`
}

type GetParameterDataSetRequest struct {
	Equipment       *Equipment `json:"equipment,omitempty"`
	ParameterSetKey string     `json:"parameter_set_key"`
}

type GetParameterDataReply struct {
	ParameterData []*ParameterData `json:"parameter_data"`
}
