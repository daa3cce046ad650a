package driver

import (
	"context"
	"time"

	"github.com/NotrixInc/nx-equipment-driver/driverrpc"
)

type ServiceOptions struct {
	Deps Dependencies

	Prober       Prober
	ProbeTimeout time.Duration
	Exceptions   ExceptionSource
	Resolver     *Resolver
}

// Service implements driverrpc.DriverServer. It keeps no per-call state, so
// one instance serves concurrent calls.
type Service struct {
	driverrpc.UnimplementedDriverServer

	logger       Logger
	clock        Clock
	prober       Prober
	probeTimeout time.Duration
	exceptions   ExceptionSource
	resolver     *Resolver
}

var _ driverrpc.DriverServer = (*Service)(nil)

func NewService(opts ServiceOptions) *Service {
	deps := opts.Deps.withDefaults()
	s := &Service{
		logger:       deps.Logger,
		clock:        deps.Clock,
		prober:       opts.Prober,
		probeTimeout: opts.ProbeTimeout,
		exceptions:   opts.Exceptions,
		resolver:     opts.Resolver,
	}
	if s.prober == nil {
		s.prober = StaticProber{Up: true}
	}
	if s.probeTimeout <= 0 {
		s.probeTimeout = DefaultProbeTimeout
	}
	if s.exceptions == nil {
		s.exceptions = SyntheticExceptions{Clock: s.clock}
	}
	if s.resolver == nil {
		s.resolver = NewDefaultResolver(s.clock)
	}
	return s
}

// GetDriverStatus is the liveness probe. It never touches hardware or network.
func (s *Service) GetDriverStatus(context.Context, *driverrpc.GetDriverStatusRequest) (*driverrpc.GetStatusReply, error) {
	return &driverrpc.GetStatusReply{
		Status:  true,
		Details: &Status{Id: 0, Message: DriverStatusMessage},
	}, nil
}

func (s *Service) GetExceptions(ctx context.Context, req *driverrpc.GetExceptionsRequest) (*driverrpc.GetExceptionsReply, error) {
	reply := &driverrpc.GetExceptionsReply{}

	if req == nil || req.Equipment == nil {
		s.invalid(&InputValidationError{Field: "equipment", Reason: "equipment is required"})
		fallback := missingEquipmentException(s.clock.Now().Format(TimestampLayout))
		reply.Exceptions = append(reply.Exceptions, &fallback)
		return reply, nil
	}

	from := req.FromTimestamp
	if from != "" {
		if _, err := time.ParseInLocation(TimestampLayout, from, time.Local); err != nil {
			s.logger.Warn("ignoring from_timestamp",
				"equipment_id", req.Equipment.Id,
				"error", &InputValidationError{Field: "from_timestamp", Reason: err.Error()})
			from = ""
		}
	}

	ex := s.exceptions.Lookup(ctx, *req.Equipment, from)
	ex.EquipmentId = req.Equipment.Id
	reply.Exceptions = append(reply.Exceptions, &ex)
	return reply, nil
}

func (s *Service) GetEquipmentStatus(ctx context.Context, req *driverrpc.GetEquipmentStatusRequest) (*driverrpc.GetStatusReply, error) {
	if req == nil || req.Equipment == nil {
		s.invalid(&InputValidationError{Field: "equipment", Reason: "equipment is required"})
		return statusReply(0, false), nil
	}

	eq := *req.Equipment
	return statusReply(eq.Id, s.CheckResponseFromEquipment(ctx, eq)), nil
}

func statusReply(id uint32, up bool) *driverrpc.GetStatusReply {
	msg := MessageUnreachable
	if up {
		msg = MessageOperational
	}
	return &driverrpc.GetStatusReply{
		Status:  up,
		Details: &Status{Id: id, Message: msg},
	}
}

// GetParameterData returns a single placeholder record; real collection goes
// through GetParameterDataSet.
func (s *Service) GetParameterData(context.Context, *driverrpc.GetParameterDataRequest) (*driverrpc.GetParameterDataReply, error) {
	return &driverrpc.GetParameterDataReply{
		ParameterData: []*ParameterData{{}},
	}, nil
}

func (s *Service) GetParameterDataSet(ctx context.Context, req *driverrpc.GetParameterDataSetRequest) (*driverrpc.GetParameterDataReply, error) {
	reply := &driverrpc.GetParameterDataReply{ParameterData: []*ParameterData{}}

	if req == nil || req.Equipment == nil {
		s.invalid(&InputValidationError{Field: "equipment", Reason: "equipment is required"})
		return reply, nil
	}

	key := ParameterSetKey(req.ParameterSetKey)
	if !s.resolver.Has(key) {
		s.logger.Warn("unknown parameter set", "equipment_id", req.Equipment.Id, "parameter_set_key", key)
		return reply, nil
	}

	reply.ParameterData = s.resolver.Resolve(ctx, key, *req.Equipment)
	return reply, nil
}

// CheckResponseFromEquipment probes the equipment under the configured probe
// timeout. Probe failures are logged and reported as false.
func (s *Service) CheckResponseFromEquipment(ctx context.Context, eq Equipment) bool {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	ok, err := s.prober.Reachable(ctx, eq)
	if err != nil {
		s.logger.Warn("reachability check failed", "error", &ReachabilityError{EquipmentID: eq.Id, Err: err})
		return false
	}
	return ok
}

func (s *Service) invalid(err *InputValidationError) {
	s.logger.Error("rejecting request input", "error", err)
}
