// Package externalmock provides go.uber.org/mock test doubles for the
// external package's collaborator interfaces, in the shape mockgen would
// generate for them (spec §6). Hand-maintained rather than mockgen-run,
// since this module's build never invokes the Go toolchain, but the
// Controller/Recorder/EXPECT() plumbing matches mockgen's own output.
package externalmock

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/jamic/safrole/external"
	"github.com/jamic/safrole/types"
)

// MockConfigService is a mock of external.ConfigService.
type MockConfigService struct {
	ctrl     *gomock.Controller
	recorder *MockConfigServiceMockRecorder
}

// MockConfigServiceMockRecorder is the mock recorder for MockConfigService.
type MockConfigServiceMockRecorder struct {
	mock *MockConfigService
}

// NewMockConfigService creates a new mock instance.
func NewMockConfigService(ctrl *gomock.Controller) *MockConfigService {
	m := &MockConfigService{ctrl: ctrl}
	m.recorder = &MockConfigServiceMockRecorder{m}
	return m
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockConfigService) EXPECT() *MockConfigServiceMockRecorder {
	return m.recorder
}

func (m *MockConfigService) NumCores() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NumCores")
	return ret[0].(uint32)
}

func (mr *MockConfigServiceMockRecorder) NumCores() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NumCores", reflect.TypeOf((*MockConfigService)(nil).NumCores))
}

func (m *MockConfigService) NumValidators() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NumValidators")
	return ret[0].(uint32)
}

func (mr *MockConfigServiceMockRecorder) NumValidators() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NumValidators", reflect.TypeOf((*MockConfigService)(nil).NumValidators))
}

func (m *MockConfigService) EpochLength() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EpochLength")
	return ret[0].(uint64)
}

func (mr *MockConfigServiceMockRecorder) EpochLength() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EpochLength", reflect.TypeOf((*MockConfigService)(nil).EpochLength))
}

func (m *MockConfigService) EpochTailStart() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EpochTailStart")
	return ret[0].(uint64)
}

func (mr *MockConfigServiceMockRecorder) EpochTailStart() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EpochTailStart", reflect.TypeOf((*MockConfigService)(nil).EpochTailStart))
}

func (m *MockConfigService) TicketsPerValidator() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TicketsPerValidator")
	return ret[0].(uint32)
}

func (mr *MockConfigServiceMockRecorder) TicketsPerValidator() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TicketsPerValidator", reflect.TypeOf((*MockConfigService)(nil).TicketsPerValidator))
}

func (m *MockConfigService) MaxAuditCores() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MaxAuditCores")
	return ret[0].(int)
}

func (mr *MockConfigServiceMockRecorder) MaxAuditCores() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MaxAuditCores", reflect.TypeOf((*MockConfigService)(nil).MaxAuditCores))
}

func (m *MockConfigService) AuditBiasFactor() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AuditBiasFactor")
	return ret[0].(int)
}

func (mr *MockConfigServiceMockRecorder) AuditBiasFactor() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AuditBiasFactor", reflect.TypeOf((*MockConfigService)(nil).AuditBiasFactor))
}

func (m *MockConfigService) MaxExtrinsicsPerSlot() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MaxExtrinsicsPerSlot")
	return ret[0].(int)
}

func (mr *MockConfigServiceMockRecorder) MaxExtrinsicsPerSlot() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MaxExtrinsicsPerSlot", reflect.TypeOf((*MockConfigService)(nil).MaxExtrinsicsPerSlot))
}

func (m *MockConfigService) MaxTicketEntries() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MaxTicketEntries")
	return ret[0].(uint32)
}

func (mr *MockConfigServiceMockRecorder) MaxTicketEntries() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MaxTicketEntries", reflect.TypeOf((*MockConfigService)(nil).MaxTicketEntries))
}

// MockValidatorSetManager is a mock of external.ValidatorSetManager.
type MockValidatorSetManager struct {
	ctrl     *gomock.Controller
	recorder *MockValidatorSetManagerMockRecorder
}

type MockValidatorSetManagerMockRecorder struct {
	mock *MockValidatorSetManager
}

func NewMockValidatorSetManager(ctrl *gomock.Controller) *MockValidatorSetManager {
	m := &MockValidatorSetManager{ctrl: ctrl}
	m.recorder = &MockValidatorSetManagerMockRecorder{m}
	return m
}

func (m *MockValidatorSetManager) EXPECT() *MockValidatorSetManagerMockRecorder {
	return m.recorder
}

func (m *MockValidatorSetManager) GetActiveValidators() types.ValidatorSet {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetActiveValidators")
	return ret[0].(types.ValidatorSet)
}

func (mr *MockValidatorSetManagerMockRecorder) GetActiveValidators() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetActiveValidators", reflect.TypeOf((*MockValidatorSetManager)(nil).GetActiveValidators))
}

func (m *MockValidatorSetManager) GetActiveValidatorKeys() [][32]byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetActiveValidatorKeys")
	return ret[0].([][32]byte)
}

func (mr *MockValidatorSetManagerMockRecorder) GetActiveValidatorKeys() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetActiveValidatorKeys", reflect.TypeOf((*MockValidatorSetManager)(nil).GetActiveValidatorKeys))
}

func (m *MockValidatorSetManager) GetValidatorAtIndex(i int) (types.ValidatorKeys, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetValidatorAtIndex", i)
	err, _ := ret[1].(error)
	return ret[0].(types.ValidatorKeys), err
}

func (mr *MockValidatorSetManagerMockRecorder) GetValidatorAtIndex(i interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetValidatorAtIndex", reflect.TypeOf((*MockValidatorSetManager)(nil).GetValidatorAtIndex), i)
}

func (m *MockValidatorSetManager) GetValidatorIndex(ed25519Hex string) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetValidatorIndex", ed25519Hex)
	err, _ := ret[1].(error)
	return ret[0].(int), err
}

func (mr *MockValidatorSetManagerMockRecorder) GetValidatorIndex(ed25519Hex interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetValidatorIndex", reflect.TypeOf((*MockValidatorSetManager)(nil).GetValidatorIndex), ed25519Hex)
}

// MockKeyPairService is a mock of external.KeyPairService.
type MockKeyPairService struct {
	ctrl     *gomock.Controller
	recorder *MockKeyPairServiceMockRecorder
}

type MockKeyPairServiceMockRecorder struct {
	mock *MockKeyPairService
}

func NewMockKeyPairService(ctrl *gomock.Controller) *MockKeyPairService {
	m := &MockKeyPairService{ctrl: ctrl}
	m.recorder = &MockKeyPairServiceMockRecorder{m}
	return m
}

func (m *MockKeyPairService) EXPECT() *MockKeyPairServiceMockRecorder {
	return m.recorder
}

func (m *MockKeyPairService) GetLocalKeyPair() (external.KeyPair, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetLocalKeyPair")
	err, _ := ret[1].(error)
	return ret[0].(external.KeyPair), err
}

func (mr *MockKeyPairServiceMockRecorder) GetLocalKeyPair() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetLocalKeyPair", reflect.TypeOf((*MockKeyPairService)(nil).GetLocalKeyPair))
}

// MockEntropyService is a mock of external.EntropyService.
type MockEntropyService struct {
	ctrl     *gomock.Controller
	recorder *MockEntropyServiceMockRecorder
}

type MockEntropyServiceMockRecorder struct {
	mock *MockEntropyService
}

func NewMockEntropyService(ctrl *gomock.Controller) *MockEntropyService {
	m := &MockEntropyService{ctrl: ctrl}
	m.recorder = &MockEntropyServiceMockRecorder{m}
	return m
}

func (m *MockEntropyService) EXPECT() *MockEntropyServiceMockRecorder {
	return m.recorder
}

func (m *MockEntropyService) GetEntropy0() [32]byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEntropy0")
	return ret[0].([32]byte)
}

func (mr *MockEntropyServiceMockRecorder) GetEntropy0() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetEntropy0", reflect.TypeOf((*MockEntropyService)(nil).GetEntropy0))
}

func (m *MockEntropyService) GetEntropy1() [32]byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEntropy1")
	return ret[0].([32]byte)
}

func (mr *MockEntropyServiceMockRecorder) GetEntropy1() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetEntropy1", reflect.TypeOf((*MockEntropyService)(nil).GetEntropy1))
}

func (m *MockEntropyService) GetEntropy2() [32]byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEntropy2")
	return ret[0].([32]byte)
}

func (mr *MockEntropyServiceMockRecorder) GetEntropy2() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetEntropy2", reflect.TypeOf((*MockEntropyService)(nil).GetEntropy2))
}

func (m *MockEntropyService) GetEntropy3() [32]byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEntropy3")
	return ret[0].([32]byte)
}

func (mr *MockEntropyServiceMockRecorder) GetEntropy3() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetEntropy3", reflect.TypeOf((*MockEntropyService)(nil).GetEntropy3))
}

func (m *MockEntropyService) GetEntropyAccumulator() types.Entropy {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEntropyAccumulator")
	return ret[0].(types.Entropy)
}

func (mr *MockEntropyServiceMockRecorder) GetEntropyAccumulator() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetEntropyAccumulator", reflect.TypeOf((*MockEntropyService)(nil).GetEntropyAccumulator))
}

// MockWorkReportService is a mock of external.WorkReportService.
type MockWorkReportService struct {
	ctrl     *gomock.Controller
	recorder *MockWorkReportServiceMockRecorder
}

type MockWorkReportServiceMockRecorder struct {
	mock *MockWorkReportService
}

func NewMockWorkReportService(ctrl *gomock.Controller) *MockWorkReportService {
	m := &MockWorkReportService{ctrl: ctrl}
	m.recorder = &MockWorkReportServiceMockRecorder{m}
	return m
}

func (m *MockWorkReportService) EXPECT() *MockWorkReportServiceMockRecorder {
	return m.recorder
}

func (m *MockWorkReportService) GetWorkReportForCore(ctx context.Context, core uint64) (*types.WorkReport, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetWorkReportForCore", ctx, core)
	err, _ := ret[1].(error)
	rep, _ := ret[0].(*types.WorkReport)
	return rep, err
}

func (mr *MockWorkReportServiceMockRecorder) GetWorkReportForCore(ctx, core interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetWorkReportForCore", reflect.TypeOf((*MockWorkReportService)(nil).GetWorkReportForCore), ctx, core)
}
