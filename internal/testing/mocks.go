package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
	"github.com/SanatPandey22/AvereSDK/internal/platform"
)

// MockBackend is a testify mock implementation of platform.Backend. It
// suits call-assertion tests such as the command handlers; orchestration
// tests that need scriptable poll sequences use the stateful fakes in
// platformtest instead.
type MockBackend struct {
	mock.Mock
}

var _ platform.Backend = (*MockBackend)(nil)

// NewMockBackend creates a MockBackend with the identity methods every
// caller touches already stubbed.
func NewMockBackend() *MockBackend {
	m := &MockBackend{}
	m.On("Name").Return("mock")
	m.On("S3Type").Return("mock-objectstorage")
	m.On("AllocatesPrivateAddresses").Return(true)
	return m
}

// GetInstance returns the mocked instance.
func (m *MockBackend) GetInstance(ctx context.Context, id string) (platform.Instance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return platform.Instance{}, args.Error(1)
	}
	return args.Get(0).(platform.Instance), args.Error(1)
}

// StartInstance starts the mocked instance.
func (m *MockBackend) StartInstance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// StopInstance stops the mocked instance.
func (m *MockBackend) StopInstance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RestartInstance restarts the mocked instance.
func (m *MockBackend) RestartInstance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DestroyInstance destroys the mocked instance.
func (m *MockBackend) DestroyInstance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ShelveInstance shelves the mocked instance.
func (m *MockBackend) ShelveInstance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// UnshelveInstance unshelves the mocked instance.
func (m *MockBackend) UnshelveInstance(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CanStop reports the mocked stop capability.
func (m *MockBackend) CanStop(inst platform.Instance) bool {
	args := m.Called(inst)
	return args.Bool(0)
}

// CanShelve reports the mocked shelve capability.
func (m *MockBackend) CanShelve(inst platform.Instance) bool {
	args := m.Called(inst)
	return args.Bool(0)
}

// PlanClusterNetwork returns the mocked network layout.
func (m *MockBackend) PlanClusterNetwork(ctx context.Context, req platform.NetworkRequest) (platform.NetworkLayout, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return platform.NetworkLayout{}, args.Error(1)
	}
	return args.Get(0).(platform.NetworkLayout), args.Error(1)
}

// CreateNodes returns the mocked instances.
func (m *MockBackend) CreateNodes(ctx context.Context, req platform.CreateNodesRequest) ([]platform.Instance, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Instance), args.Error(1)
}

// FindClusterInstances returns the mocked instance list.
func (m *MockBackend) FindClusterInstances(ctx context.Context, cluster string) ([]platform.Instance, error) {
	args := m.Called(ctx, cluster)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Instance), args.Error(1)
}

// InUseAddresses returns the mocked in-use address list.
func (m *MockBackend) InUseAddresses(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// GetAvailableAddresses returns the mocked free address block.
func (m *MockBackend) GetAvailableAddresses(ctx context.Context, count int, cidr string, inUse []string) ([]string, string, error) {
	args := m.Called(ctx, count, cidr, inUse)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]string), args.String(1), args.Error(2)
}

// CreateBucket creates the mocked bucket.
func (m *MockBackend) CreateBucket(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// DeleteBucket deletes the mocked bucket.
func (m *MockBackend) DeleteBucket(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// AuthorizeBucket returns the mocked credential name.
func (m *MockBackend) AuthorizeBucket(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// Environment returns the mocked boot environment.
func (m *MockBackend) Environment(ctx context.Context) (platform.Environment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return platform.Environment{}, args.Error(1)
	}
	return args.Get(0).(platform.Environment), args.Error(1)
}

// Name returns the mocked provider name.
func (m *MockBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

// S3Type returns the mocked object-store dialect.
func (m *MockBackend) S3Type() string {
	args := m.Called()
	return args.String(0)
}

// AllocatesPrivateAddresses reports the mocked addressing mode.
func (m *MockBackend) AllocatesPrivateAddresses() bool {
	args := m.Called()
	return args.Bool(0)
}

// PostDestroy releases the mocked instance leftovers.
func (m *MockBackend) PostDestroy(ctx context.Context, inst platform.Instance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

// WithInstances configures FindClusterInstances to return insts and
// GetInstance to resolve each by ID.
func (m *MockBackend) WithInstances(insts ...platform.Instance) *MockBackend {
	m.On("FindClusterInstances", mock.Anything, mock.Anything).Return(insts, nil)
	for _, inst := range insts {
		m.On("GetInstance", mock.Anything, inst.ID).Return(inst, nil)
	}
	return m
}

// WithNetworkLayout configures PlanClusterNetwork to return layout.
func (m *MockBackend) WithNetworkLayout(layout platform.NetworkLayout) *MockBackend {
	m.On("PlanClusterNetwork", mock.Anything, mock.Anything).Return(layout, nil)
	return m
}

// WithCreatedNodes configures CreateNodes to return insts.
func (m *MockBackend) WithCreatedNodes(insts ...platform.Instance) *MockBackend {
	m.On("CreateNodes", mock.Anything, mock.Anything).Return(insts, nil)
	return m
}

// WithLifecycle configures every instance lifecycle mutation to succeed
// and both capability checks to allow.
func (m *MockBackend) WithLifecycle() *MockBackend {
	m.On("StartInstance", mock.Anything, mock.Anything).Return(nil)
	m.On("StopInstance", mock.Anything, mock.Anything).Return(nil)
	m.On("RestartInstance", mock.Anything, mock.Anything).Return(nil)
	m.On("DestroyInstance", mock.Anything, mock.Anything).Return(nil)
	m.On("ShelveInstance", mock.Anything, mock.Anything).Return(nil)
	m.On("UnshelveInstance", mock.Anything, mock.Anything).Return(nil)
	m.On("PostDestroy", mock.Anything, mock.Anything).Return(nil)
	m.On("CanStop", mock.Anything).Return(true)
	m.On("CanShelve", mock.Anything).Return(true)
	return m
}

// WithEnvironment configures the discovered boot environment.
func (m *MockBackend) WithEnvironment(env platform.Environment) *MockBackend {
	m.On("Environment", mock.Anything).Return(env, nil)
	return m
}

// WithBucket configures bucket creation and authorization to succeed,
// returning credential from AuthorizeBucket.
func (m *MockBackend) WithBucket(credential string) *MockBackend {
	m.On("CreateBucket", mock.Anything, mock.Anything).Return(nil)
	m.On("DeleteBucket", mock.Anything, mock.Anything).Return(nil)
	m.On("AuthorizeBucket", mock.Anything, mock.Anything).Return(credential, nil)
	return m
}

// MockTransport is a testify mock implementation of mgmt.Transport.
// Replies are filled through WithReply; sequencing-heavy poll tests use
// the queue fake in mgmttest instead.
type MockTransport struct {
	mock.Mock
}

var _ mgmt.Transport = (*MockTransport)(nil)

// NewMockTransport creates a MockTransport whose Close succeeds.
func NewMockTransport() *MockTransport {
	m := &MockTransport{}
	m.On("Close").Return(nil)
	return m
}

// Call implements mgmt.Transport.
func (m *MockTransport) Call(ctx context.Context, method string, args []any, reply any) error {
	ret := m.Called(ctx, method, args, reply)
	return ret.Error(0)
}

// Close implements mgmt.Transport.
func (m *MockTransport) Close() error {
	args := m.Called()
	return args.Error(0)
}

// WithReply configures method to succeed, filling the caller's reply
// value through fill. Pass nil to leave the reply untouched.
func (m *MockTransport) WithReply(method string, fill func(reply any)) *MockTransport {
	call := m.On("Call", mock.Anything, method, mock.Anything, mock.Anything)
	if fill != nil {
		call.Run(func(args mock.Arguments) {
			if reply := args.Get(3); reply != nil {
				fill(reply)
			}
		})
	}
	call.Return(nil)
	return m
}

// WithError configures method to fail with err.
func (m *MockTransport) WithError(method string, err error) *MockTransport {
	m.On("Call", mock.Anything, method, mock.Anything, mock.Anything).Return(err)
	return m
}

// WithFault configures method to fail with a management fault.
func (m *MockTransport) WithFault(method string, code int, message string) *MockTransport {
	return m.WithError(method, &mgmt.Fault{Code: code, Message: message})
}

// Dialer returns a mgmt.Dialer that always hands out this transport.
func (m *MockTransport) Dialer() mgmt.Dialer {
	return func(ctx context.Context, address string) (mgmt.Transport, error) {
		return m, nil
	}
}
