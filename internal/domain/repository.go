package domain

// HistoryRepository persists download run records
type HistoryRepository interface {
	Create(record *DownloadRecord) error
	Update(record *DownloadRecord) error
	FindByID(id string) (*DownloadRecord, error)
	FindAll() ([]*DownloadRecord, error)
	FindByStatus(status RunStatus) ([]*DownloadRecord, error)
	Close() error
}
