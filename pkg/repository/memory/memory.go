package memory

import (
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	assessment         *assessmentRepository
	linkedRecord       *linkedRecordRepository
	actionItem         *actionItemRepository
	system             *systemRepository
	processingActivity *processingActivityRepository
	riskConfig         *riskConfigRepository
	framework          *frameworkRepository
	optionList         *optionListRepository
}

var _ interfaces.Repository = &Memory{}

type Option func(*Memory)

// WithoutValidationColumns emulates a store that has no dedicated
// validated_by / validated_at fields
func WithoutValidationColumns() Option {
	return func(m *Memory) {
		m.assessment.legacyValidation = true
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		assessment:         newAssessmentRepository(),
		linkedRecord:       newLinkedRecordRepository(),
		actionItem:         newActionItemRepository(),
		system:             newSystemRepository(),
		processingActivity: newProcessingActivityRepository(),
		riskConfig:         newRiskConfigRepository(),
		framework:          newFrameworkRepository(),
		optionList:         newOptionListRepository(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) LinkedRecord() interfaces.LinkedRecordRepository {
	return m.linkedRecord
}

func (m *Memory) ActionItem() interfaces.ActionItemRepository {
	return m.actionItem
}

func (m *Memory) System() interfaces.SystemRepository {
	return m.system
}

func (m *Memory) ProcessingActivity() interfaces.ProcessingActivityRepository {
	return m.processingActivity
}

func (m *Memory) RiskConfig() interfaces.RiskConfigRepository {
	return m.riskConfig
}

func (m *Memory) Framework() interfaces.FrameworkRepository {
	return m.framework
}

func (m *Memory) OptionList() interfaces.OptionListRepository {
	return m.optionList
}

func (m *Memory) Close() error {
	return nil
}
