package testing

import (
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/SanatPandey22/AvereSDK/internal/platform"
	"github.com/SanatPandey22/AvereSDK/internal/util/netutil"
)

// BackendFixture provides pre-configured backend mocks for common test
// scenarios.
type BackendFixture struct {
	mock *MockBackend
}

// NewBackendFixture creates a new backend fixture.
func NewBackendFixture() *BackendFixture {
	return &BackendFixture{mock: NewMockBackend()}
}

// Mock returns the underlying MockBackend for custom configuration.
func (f *BackendFixture) Mock() *MockBackend {
	return f.mock
}

// ThreeNodeCluster returns running instances named <cluster>-1..3 on
// 10.0.0.2-4.
func ThreeNodeCluster(cluster string) []platform.Instance {
	insts := make([]platform.Instance, 3)
	for i := range insts {
		addr := fmt.Sprintf("10.0.0.%d", i+2)
		insts[i] = platform.Instance{
			ID:         fmt.Sprintf("%d", 1000+i),
			Name:       fmt.Sprintf("%s-%d", cluster, i+1),
			Address:    addr,
			PrivateIPs: []string{addr},
			Status:     platform.StatusRunning,
			Labels:     map[string]string{"cluster": cluster},
		}
	}
	return insts
}

// DefaultLayout returns the network layout SuccessfulCreate plans with:
// management on 10.0.0.5, cluster range 10.0.0.6-8, instance primaries
// on 10.0.0.2-4.
func DefaultLayout() platform.NetworkLayout {
	return platform.NetworkLayout{
		MgmtIP:       "10.0.0.5",
		Netmask:      "255.255.255.0",
		Router:       "10.0.0.1",
		ClusterRange: netutil.Range{First: "10.0.0.6", Last: "10.0.0.8", Netmask: "255.255.255.0"},
		InstanceIPs:  []string{"10.0.0.2", "10.0.0.3", "10.0.0.4"},
	}
}

// SuccessfulCreate configures the mock for a full create flow: network
// plan, three created nodes, instance lookups, lifecycle mutations and
// environment discovery all succeed. Returns the mock for chaining.
func (f *BackendFixture) SuccessfulCreate(cluster string) *MockBackend {
	insts := ThreeNodeCluster(cluster)
	f.mock.WithNetworkLayout(DefaultLayout()).
		WithCreatedNodes(insts...).
		WithInstances(insts...).
		WithLifecycle().
		WithEnvironment(platform.Environment{
			DNSServers: []string{"185.12.64.1", "185.12.64.2"},
			NTPServers: []string{"ntp1.hetzner.de"},
		})
	f.mock.On("InUseAddresses", mock.Anything).Return([]string{"10.0.0.1"}, nil)
	return f.mock
}

// WithPlanError configures network planning to fail.
func (f *BackendFixture) WithPlanError(err error) *MockBackend {
	f.mock.On("PlanClusterNetwork", mock.Anything, mock.Anything).Return(nil, err)
	return f.mock
}

// WithCreateError configures node creation to fail after bringing up
// only the given instances, and destroys to succeed so rollback can run.
func (f *BackendFixture) WithCreateError(err error, created ...platform.Instance) *MockBackend {
	f.mock.WithNetworkLayout(DefaultLayout())
	f.mock.On("CreateNodes", mock.Anything, mock.Anything).Return(created, err)
	f.mock.On("FindClusterInstances", mock.Anything, mock.Anything).Return(created, nil)
	f.mock.On("DestroyInstance", mock.Anything, mock.Anything).Return(nil)
	f.mock.On("PostDestroy", mock.Anything, mock.Anything).Return(nil)
	f.mock.On("InUseAddresses", mock.Anything).Return([]string{"10.0.0.1"}, nil)
	f.mock.WithEnvironment(platform.Environment{})
	return f.mock
}
