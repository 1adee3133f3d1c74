package onboarding

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"mini-shop/internal/catalog"
	"mini-shop/internal/model"

	"github.com/rs/zerolog"
)

// Survey is the shop profile captured by the onboarding wizard. It lives in
// process memory only, one per onboarding session.
type Survey struct {
	ShopName         string `json:"shopName"`
	Industry         string `json:"industry"`
	BrandTone        string `json:"brandTone"`
	Currency         string `json:"currency"`
	UseAISuggestions bool   `json:"useAiSuggestions"`
}

// Step is one stage of the fixed analysis sequence.
type Step struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Stats summarises the import outcome shown at the end of the pipeline.
type Stats struct {
	ValidProducts int `json:"validProducts"`
	Skipped       int `json:"skipped"`
}

// PipelineState is a snapshot of the running analysis sequence.
type PipelineState struct {
	Steps    []Step   `json:"steps"`
	Logs     []string `json:"logs"`
	Progress float64  `json:"progress"`
	Complete bool     `json:"complete"`
	Running  bool     `json:"running"`
	Stats    Stats    `json:"stats"`
}

// Clock abstracts the timers driving the step sequence so tests can run it
// without real delays.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// Installer receives the products produced by the final pipeline step.
type Installer func(ctx context.Context, products []model.Product) error

const (
	firstStepDelay = 100 * time.Millisecond
	stepDelay      = 1200 * time.Millisecond
)

func initialSteps() []Step {
	return []Step{
		{ID: "1", Title: "Kiểm tra cấu trúc file & cột bắt buộc"},
		{ID: "2", Title: "Phân tích danh mục – mapping category"},
		{ID: "3", Title: "Chuẩn hoá giá & số lượng tồn kho"},
		{ID: "4", Title: "Tối ưu tiêu đề & mô tả ngắn (brand tone)"},
		{ID: "5", Title: "Kiểm tra & tối ưu ảnh sản phẩm (tỷ lệ, kích thước)"},
		{ID: "6", Title: "Gợi ý badge (Chính hãng / Best seller / Freeship)"},
		{ID: "7", Title: "Tạo gợi ý sản phẩm liên quan (related)"},
		{ID: "8", Title: "Dựng Mini Shop (chat trái, sản phẩm phải)"},
	}
}

// Service owns the survey and runs the analysis pipeline that turns an
// uploaded CSV feed (or the demo catalogue) into the live product list.
type Service struct {
	mu         sync.Mutex
	survey     *Survey
	uploadName string
	uploadData []byte
	state      PipelineState
	cancel     func()

	importer  *catalog.Importer
	installer Installer
	clock     Clock
	logger    zerolog.Logger
}

// NewService creates the onboarding service.
func NewService(importer *catalog.Importer, installer Installer, clock Clock, logger zerolog.Logger) *Service {
	return &Service{
		state:     PipelineState{Steps: initialSteps()},
		importer:  importer,
		installer: installer,
		clock:     clock,
		logger:    logger.With().Str("service", "onboarding").Logger(),
	}
}

// SetSurvey stores the onboarding survey for the current session.
func (s *Service) SetSurvey(survey Survey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.survey = &survey
	s.logger.Info().
		Str("shop_name", survey.ShopName).
		Str("industry", survey.Industry).
		Msg("survey captured")
}

// Survey returns the stored survey, or nil when onboarding has not run.
func (s *Service) Survey() *Survey {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.survey == nil {
		return nil
	}
	survey := *s.survey
	return &survey
}

// SetUpload stores the uploaded feed file after validating its name and
// size. Passing empty data clears the upload so the demo catalogue is used.
func (s *Service) SetUpload(filename string, data []byte) error {
	if len(data) > 0 {
		if err := catalog.ValidateUpload(filename, int64(len(data))); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadName = filename
	s.uploadData = data
	return nil
}

// Preview parses the stored upload without installing anything, for the
// import preview screen.
func (s *Service) Preview() (*catalog.ImportResult, error) {
	s.mu.Lock()
	data := s.uploadData
	s.mu.Unlock()

	if len(data) == 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidImport, "No feed file uploaded")
	}

	return s.importer.Parse(bytes.NewReader(data))
}

// Run starts the fixed analysis sequence. The first step fires after 100ms,
// subsequent steps every 1.2s. Running while a sequence is in flight is
// rejected.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Running {
		return model.NewDomainError(model.ErrCodeInvalidImport, "Analysis already running")
	}

	s.state = PipelineState{Steps: initialSteps(), Running: true}
	s.cancel = s.clock.AfterFunc(firstStepDelay, func() { s.processStep(ctx, 0) })

	s.logger.Info().Msg("analysis pipeline started")
	return nil
}

// State returns a snapshot of the pipeline.
func (s *Service) State() PipelineState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state
	snapshot.Steps = make([]Step, len(s.state.Steps))
	copy(snapshot.Steps, s.state.Steps)
	snapshot.Logs = make([]string, len(s.state.Logs))
	copy(snapshot.Logs, s.state.Logs)
	return snapshot
}

// processStep completes one step, appends its log line and schedules the
// next. The final step installs the parsed catalogue.
func (s *Service) processStep(ctx context.Context, index int) {
	s.mu.Lock()

	if !s.state.Running || index >= len(s.state.Steps) {
		s.mu.Unlock()
		return
	}

	s.state.Steps[index].Completed = true
	s.state.Steps[index].Timestamp = s.clock.Now().Format("15:04:05")
	s.state.Progress = float64(index+1) / float64(len(s.state.Steps)) * 100

	switch index {
	case 0:
		if len(s.uploadData) > 0 {
			s.addLog(fmt.Sprintf("Đã đọc file %s", s.uploadName))
		} else {
			s.addLog("Sử dụng dữ liệu demo")
		}
	case 1:
		s.addLog("Phân loại sản phẩm theo danh mục...")
	case 2:
		s.addLog("Chuẩn hoá giá VND...")
	case 3:
		tone := "Thân thiện"
		if s.survey != nil && s.survey.BrandTone != "" {
			tone = s.survey.BrandTone
		}
		s.addLog(fmt.Sprintf("Tối ưu mô tả theo tone: %s...", tone))
	case 4:
		s.addLog("Tối ưu kích thước ảnh sản phẩm...")
	case 5:
		s.addLog("Tạo badge tự động...")
	case 6:
		s.addLog("Phân tích sản phẩm liên quan...")
	case 7:
		s.addLog("Hoàn tất dựng Mini Shop!")
		data := s.uploadData
		s.mu.Unlock()
		// Parse and install without the mutex so State() stays readable
		// during the database write.
		s.finish(ctx, data)
		return
	}

	next := index + 1
	s.cancel = s.clock.AfterFunc(stepDelay, func() { s.processStep(ctx, next) })
	s.mu.Unlock()
}

// finish parses the upload (or falls back to the demo catalogue) and
// installs the result. Runs outside the mutex; a Reset racing the install
// wins and the completed state is discarded.
func (s *Service) finish(ctx context.Context, data []byte) {
	var products []model.Product
	var stats Stats

	if len(data) > 0 {
		result, err := s.importer.Parse(bytes.NewReader(data))
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to parse uploaded feed")
			s.abort("Không thể đọc file CSV")
			return
		}
		products = result.Products
		stats = Stats{ValidProducts: len(result.Products), Skipped: result.Skipped}
	} else {
		products = catalog.DemoProducts(s.clock.Now())
		stats = Stats{ValidProducts: len(products)}
	}

	if err := s.installer(ctx, products); err != nil {
		s.logger.Error().Err(err).Msg("failed to install catalogue")
		s.abort("Không thể lưu danh sách sản phẩm")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Running {
		return
	}
	s.state.Stats = stats
	s.state.Running = false
	s.state.Complete = true
	s.state.Progress = 100

	s.logger.Info().
		Int("products", stats.ValidProducts).
		Int("skipped", stats.Skipped).
		Msg("analysis pipeline completed")
}

// abort records the failure and stops the pipeline.
func (s *Service) abort(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Running {
		return
	}
	s.addLog(message)
	s.state.Running = false
}

func (s *Service) addLog(message string) {
	s.state.Logs = append(s.state.Logs, fmt.Sprintf("%s: %s", s.clock.Now().Format("15:04:05"), message))
}

// Reset drops the survey, upload and pipeline state.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.survey = nil
	s.uploadName = ""
	s.uploadData = nil
	s.state = PipelineState{Steps: initialSteps()}
}
