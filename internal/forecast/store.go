package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/epaforecast/internal/contracts"
)

// SaveArtifact 모델 아티팩트 JSON 저장 (상위 디렉토리 생성)
func SaveArtifact(path string, artifact *contracts.ModelArtifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	// 임시 파일에 쓰고 rename (읽는 쪽이 반쯤 쓰인 파일을 보지 않도록)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// LoadArtifact 모델 아티팩트 로드
func LoadArtifact(path string) (*contracts.ModelArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var artifact contracts.ModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}
	if len(artifact.Weights) != len(artifact.Features) {
		return nil, fmt.Errorf("artifact %s: %d weights for %d features", path, len(artifact.Weights), len(artifact.Features))
	}
	return &artifact, nil
}
