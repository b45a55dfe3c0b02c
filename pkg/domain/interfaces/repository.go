package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Assessment() AssessmentRepository
	LinkedRecord() LinkedRecordRepository
	ActionItem() ActionItemRepository
	System() SystemRepository
	ProcessingActivity() ProcessingActivityRepository
	RiskConfig() RiskConfigRepository
	Framework() FrameworkRepository
	OptionList() OptionListRepository

	Close() error
}
