package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 메트릭, 이벤트에서 이 상수를 사용해야 함
//
// 파이프라인 흐름 (파일 기반):
//   S0 → S1 → S2 → S3
//   Acquire  Clean  Quality  Model

// Stage represents a pipeline stage
type Stage string

const (
	// StageAcquire S0: 원천 데이터 수집
	// 책임: 시즌별 주간 스탯 다운로드, 컬럼 선택, REG 필터, raw CSV 저장
	// 위치: internal/s0_data/
	StageAcquire Stage = "S0_ACQUIRE"

	// StageClean S1: 데이터 정제
	// 책임: REG + week <= cutoff 필터, 정수 캐스팅, passing_epa 결측 0 채움
	// 위치: internal/s1_clean/
	StageClean Stage = "S1_CLEAN"

	// StageQuality S2: 데이터 검증
	// 책임: 스키마/범위/중복/음수 검사, 첫 실패에서 중단
	// 위치: internal/s2_quality/
	StageQuality Stage = "S2_QUALITY"

	// StageModel S3: 모델 학습
	// 책임: median 라벨, 80/20 분할, 로지스틱 회귀, 정확도, 모델 저장
	// 위치: internal/forecast/
	StageModel Stage = "S3_MODEL"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageAcquire:
		return "S0"
	case StageClean:
		return "S1"
	case StageQuality:
		return "S2"
	case StageModel:
		return "S3"
	default:
		return "UNKNOWN"
	}
}

// Description returns a human readable description of the stage
func (s Stage) Description() string {
	switch s {
	case StageAcquire:
		return "acquire weekly stats"
	case StageClean:
		return "clean mid-season snapshot"
	case StageQuality:
		return "validate cleaned data"
	case StageModel:
		return "fit passing EPA model"
	default:
		return "unknown"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageAcquire,
		StageClean,
		StageQuality,
		StageModel,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageStatus is the lifecycle state carried by a StageEvent
type StageStatus string

const (
	StatusStarted   StageStatus = "started"
	StatusCompleted StageStatus = "completed"
	StatusFailed    StageStatus = "failed"
)

// StageEvent is published by the orchestrator for every stage transition
type StageEvent struct {
	RunID      string      `json:"run_id"`
	Stage      Stage       `json:"stage"`
	Status     StageStatus `json:"status"`
	Output     string      `json:"output,omitempty"`
	DurationMs int64       `json:"duration_ms,omitempty"`
	Error      string      `json:"error,omitempty"`
	Timestamp  int64       `json:"timestamp"`
}

// PipelineResult represents the result of a pipeline stage execution
type PipelineResult struct {
	Stage       Stage                  `json:"stage"`
	Success     bool                   `json:"success"`
	InputCount  int                    `json:"input_count"`
	OutputCount int                    `json:"output_count"`
	Duration    int64                  `json:"duration_ms"`
	Output      string                 `json:"output,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
