package command

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/project-home/smart-home-core/internal/device"
	"github.com/project-home/smart-home-core/internal/metrics"
	"github.com/project-home/smart-home-core/internal/usage"
)

// mockRepo is an in-memory device.Repository recording mutations.
type mockRepo struct {
	devices map[string]*device.Device

	inserted      []*device.Device
	deleted       []string
	updatedFields map[string]any
	updatedParams map[string]any
}

func newMockRepo(devices ...*device.Device) *mockRepo {
	r := &mockRepo{devices: make(map[string]*device.Device)}
	for _, d := range devices {
		r.devices[d.ID] = d
	}
	return r
}

func (r *mockRepo) GetByID(_ context.Context, id string) (*device.Device, error) {
	d, ok := r.devices[id]
	if !ok {
		return nil, device.ErrDeviceNotFound
	}
	return d, nil
}

func (r *mockRepo) List(_ context.Context) ([]*device.Device, error) {
	out := make([]*device.Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	return out, nil
}

func (r *mockRepo) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.devices))
	for id := range r.devices {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *mockRepo) Insert(_ context.Context, d *device.Device) error {
	if _, ok := r.devices[d.ID]; ok {
		return device.ErrDeviceExists
	}
	r.devices[d.ID] = d
	r.inserted = append(r.inserted, d)
	return nil
}

func (r *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.devices[id]; !ok {
		return device.ErrDeviceNotFound
	}
	delete(r.devices, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *mockRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	if _, ok := r.devices[id]; !ok {
		return device.ErrDeviceNotFound
	}
	r.updatedFields = fields
	return nil
}

func (r *mockRepo) UpdateParameters(_ context.Context, id string, params map[string]any) error {
	if _, ok := r.devices[id]; !ok {
		return device.ErrDeviceNotFound
	}
	r.updatedParams = params
	return nil
}

type paramCall struct {
	name  string
	value any
}

type metadataCall struct {
	key      string
	oldValue any
	newValue any
}

// mockProjector records projection calls and can fail selected parameters.
type mockProjector struct {
	params       []paramCall
	statuses     []string
	metadata     []metadataCall
	bootstrapped []string
	forgotten    []string

	paramErr  map[string]error
	statusErr error
}

func (m *mockProjector) ProjectParameter(_ *device.Device, name string, value any) error {
	if err := m.paramErr[name]; err != nil {
		return err
	}
	m.params = append(m.params, paramCall{name: name, value: value})
	return nil
}

func (m *mockProjector) ProjectStatus(_ *device.Device, status string) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *mockProjector) ProjectMetadata(_, key string, oldValue, newValue any) {
	m.metadata = append(m.metadata, metadataCall{key: key, oldValue: oldValue, newValue: newValue})
}

func (m *mockProjector) Bootstrap(d *device.Device) {
	m.bootstrapped = append(m.bootstrapped, d.ID)
}

func (m *mockProjector) Forget(id string) {
	m.forgotten = append(m.forgotten, id)
}

type publishCall struct {
	deviceID string
	method   string
	contents any
}

type mockPublisher struct {
	calls []publishCall
	err   error
}

func (m *mockPublisher) Publish(deviceID, method string, contents any) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, publishCall{deviceID: deviceID, method: method, contents: contents})
	return nil
}

func testLight() *device.Device {
	return &device.Device{
		ID:     "light-1",
		Type:   device.DeviceTypeLight,
		Room:   "kitchen",
		Name:   "Ceiling Light",
		Status: device.StatusOff,
		Parameters: map[string]any{
			"brightness":    75,
			"is_dimmable":   true,
			"dynamic_color": false,
		},
	}
}

func newTestProcessor(repo *mockRepo) (*Processor, *mockProjector, *mockPublisher) {
	projector := &mockProjector{}
	publisher := &mockPublisher{}
	return NewProcessor(repo, projector, publisher, nil), projector, publisher
}

func TestCreate(t *testing.T) {
	repo := newMockRepo()
	p, projector, publisher := newTestProcessor(repo)

	light := testLight()
	if err := p.Create(context.Background(), light, true); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("inserted %d devices, want 1", len(repo.inserted))
	}
	if len(projector.bootstrapped) != 1 || projector.bootstrapped[0] != "light-1" {
		t.Errorf("bootstrapped = %v, want [light-1]", projector.bootstrapped)
	}
	if len(publisher.calls) != 1 {
		t.Fatalf("published %d messages, want 1", len(publisher.calls))
	}
	if call := publisher.calls[0]; call.method != "post" || call.deviceID != "light-1" {
		t.Errorf("published %s/%s, want light-1/post", call.deviceID, call.method)
	}
}

func TestCreate_NoPublishOnBrokerPath(t *testing.T) {
	p, _, publisher := newTestProcessor(newMockRepo())

	if err := p.Create(context.Background(), testLight(), false); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(publisher.calls) != 0 {
		t.Errorf("published %d messages, want 0", len(publisher.calls))
	}
}

func TestCreate_ValidationAbortsBeforeStore(t *testing.T) {
	repo := newMockRepo()
	p, projector, _ := newTestProcessor(repo)

	bad := testLight()
	bad.Room = ""
	if err := p.Create(context.Background(), bad, true); !errors.Is(err, device.ErrMissingField) {
		t.Fatalf("Create() error = %v, want ErrMissingField", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("invalid device reached the store")
	}
	if len(projector.bootstrapped) != 0 {
		t.Error("invalid device was bootstrapped")
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	repo := newMockRepo(testLight())
	p, projector, publisher := newTestProcessor(repo)

	if err := p.Create(context.Background(), testLight(), true); !errors.Is(err, device.ErrDeviceExists) {
		t.Fatalf("Create() error = %v, want ErrDeviceExists", err)
	}
	if len(projector.bootstrapped) != 0 || len(publisher.calls) != 0 {
		t.Error("duplicate create produced side effects")
	}
}

func TestUpdate(t *testing.T) {
	repo := newMockRepo(testLight())
	p, projector, publisher := newTestProcessor(repo)

	fields := map[string]any{"room": "hallway", "status": device.StatusOn}
	if err := p.Update(context.Background(), "light-1", fields, true); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(projector.metadata) != 1 {
		t.Fatalf("metadata projections = %d, want 1", len(projector.metadata))
	}
	meta := projector.metadata[0]
	if meta.key != "room" || meta.oldValue != "kitchen" || meta.newValue != "hallway" {
		t.Errorf("metadata projection = %+v, want room kitchen→hallway", meta)
	}
	if len(projector.statuses) != 1 || projector.statuses[0] != device.StatusOn {
		t.Errorf("status projections = %v, want [on]", projector.statuses)
	}
	if repo.updatedFields == nil {
		t.Error("store fields were not updated")
	}
	if len(publisher.calls) != 1 || publisher.calls[0].method != "update" {
		t.Errorf("publish calls = %+v, want one update", publisher.calls)
	}
}

func TestUpdate_IllegalField(t *testing.T) {
	repo := newMockRepo(testLight())
	p, projector, _ := newTestProcessor(repo)

	err := p.Update(context.Background(), "light-1", map[string]any{"type": "curtain"}, true)
	if !errors.Is(err, device.ErrIllegalField) {
		t.Fatalf("Update() error = %v, want ErrIllegalField", err)
	}
	if repo.updatedFields != nil || len(projector.metadata) != 0 {
		t.Error("illegal update produced side effects")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	p, _, _ := newTestProcessor(newMockRepo())

	err := p.Update(context.Background(), "ghost", map[string]any{"room": "attic"}, true)
	if !errors.Is(err, device.ErrDeviceNotFound) {
		t.Errorf("Update() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestUpdate_StatusProjectionFailureAbortsStore(t *testing.T) {
	repo := newMockRepo(testLight())
	projector := &mockProjector{statusErr: device.ErrUnknownState}
	p := NewProcessor(repo, projector, nil, nil)

	err := p.Update(context.Background(), "light-1", map[string]any{"status": device.StatusOn}, false)
	if !errors.Is(err, device.ErrUnknownState) {
		t.Fatalf("Update() error = %v, want ErrUnknownState", err)
	}
	if repo.updatedFields != nil {
		t.Error("failed projection still reached the store")
	}
}

func TestAction(t *testing.T) {
	repo := newMockRepo(testLight())
	p, projector, publisher := newTestProcessor(repo)

	params := map[string]any{"brightness": 40}
	if err := p.Action(context.Background(), "light-1", params, true); err != nil {
		t.Fatalf("Action() error = %v", err)
	}

	if len(projector.params) != 1 || projector.params[0].name != "brightness" {
		t.Errorf("projected params = %+v, want brightness", projector.params)
	}
	if repo.updatedParams == nil {
		t.Error("store parameters were not updated")
	}
	if len(publisher.calls) != 1 || publisher.calls[0].method != "action" {
		t.Errorf("publish calls = %+v, want one action", publisher.calls)
	}
}

func TestAction_ReadOnlyParameterPersists(t *testing.T) {
	// Read-only parameters carry no metric but must still reach the store.
	// Wired with the real projector so the full action path is exercised.
	curtain := &device.Device{
		ID:         "curtain-1",
		Type:       device.DeviceTypeCurtain,
		Room:       "bedroom",
		Name:       "Blackout Curtain",
		Status:     device.StatusOpen,
		Parameters: map[string]any{"position": 0},
	}
	repo := newMockRepo(curtain)
	projector := metrics.NewProjector(metrics.NewCollectors(), usage.NewTracker(), nil)
	p := NewProcessor(repo, projector, nil, nil)

	if err := p.Action(context.Background(), "curtain-1", map[string]any{"position": 50}, false); err != nil {
		t.Fatalf("Action() error = %v", err)
	}
	if repo.updatedParams == nil || repo.updatedParams["position"] != 50 {
		t.Errorf("updatedParams = %v, want position 50 persisted", repo.updatedParams)
	}
}

func TestAction_RejectedParameterAbortsStore(t *testing.T) {
	repo := newMockRepo(testLight())
	projector := &mockProjector{paramErr: map[string]error{
		"brightness": fmt.Errorf("invalid value"),
	}}
	p := NewProcessor(repo, projector, nil, nil)

	err := p.Action(context.Background(), "light-1", map[string]any{"brightness": "max"}, false)
	if err == nil {
		t.Fatal("Action() error = nil, want projection failure")
	}
	if repo.updatedParams != nil {
		t.Error("rejected action still reached the store")
	}
}

func TestAction_UnknownParameter(t *testing.T) {
	repo := newMockRepo(testLight())
	p, projector, _ := newTestProcessor(repo)

	err := p.Action(context.Background(), "light-1", map[string]any{"temperature": 20}, false)
	if !errors.Is(err, device.ErrUnknownParameter) {
		t.Fatalf("Action() error = %v, want ErrUnknownParameter", err)
	}
	if len(projector.params) != 0 {
		t.Error("illegal parameter was projected")
	}
}

func TestAction_Empty(t *testing.T) {
	p, _, _ := newTestProcessor(newMockRepo(testLight()))

	err := p.Action(context.Background(), "light-1", map[string]any{}, false)
	if !errors.Is(err, device.ErrMissingField) {
		t.Errorf("Action() error = %v, want ErrMissingField", err)
	}
}

func TestDelete_EngagedDeviceClosesInterval(t *testing.T) {
	light := testLight()
	light.Status = device.StatusOn
	repo := newMockRepo(light)
	p, projector, publisher := newTestProcessor(repo)

	if err := p.Delete(context.Background(), "light-1", true); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if len(projector.statuses) != 1 || projector.statuses[0] != device.StatusOff {
		t.Errorf("synthesized transitions = %v, want [off]", projector.statuses)
	}
	if len(repo.deleted) != 1 {
		t.Error("device was not removed from the store")
	}
	if len(projector.forgotten) != 1 || projector.forgotten[0] != "light-1" {
		t.Errorf("forgotten = %v, want [light-1]", projector.forgotten)
	}
	if len(publisher.calls) != 1 || publisher.calls[0].method != "delete" {
		t.Errorf("publish calls = %+v, want one delete", publisher.calls)
	}
}

func TestDelete_DisengagedDeviceSkipsTransition(t *testing.T) {
	repo := newMockRepo(testLight()) // status off
	p, projector, _ := newTestProcessor(repo)

	if err := p.Delete(context.Background(), "light-1", false); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(projector.statuses) != 0 {
		t.Errorf("synthesized transitions = %v, want none", projector.statuses)
	}
	if len(projector.forgotten) != 1 {
		t.Error("deleted device was not forgotten")
	}
}

func TestDelete_NotFound(t *testing.T) {
	p, _, _ := newTestProcessor(newMockRepo())

	if err := p.Delete(context.Background(), "ghost", true); !errors.Is(err, device.ErrDeviceNotFound) {
		t.Errorf("Delete() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestMarkRead(t *testing.T) {
	p, projector, _ := newTestProcessor(newMockRepo())

	p.MarkRead(testLight())
	if len(projector.bootstrapped) != 1 || projector.bootstrapped[0] != "light-1" {
		t.Errorf("bootstrapped = %v, want [light-1]", projector.bootstrapped)
	}
}

func TestPublishFailureDoesNotFailCommand(t *testing.T) {
	repo := newMockRepo()
	projector := &mockProjector{}
	publisher := &mockPublisher{err: errors.New("broker down")}
	p := NewProcessor(repo, projector, publisher, nil)

	if err := p.Create(context.Background(), testLight(), true); err != nil {
		t.Errorf("Create() error = %v, want nil despite publish failure", err)
	}
	if len(repo.inserted) != 1 {
		t.Error("device was not stored")
	}
}
