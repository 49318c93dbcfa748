package importer

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/config"
	"github.com/railatlas-loader/internal/domain"
	"github.com/railatlas-loader/internal/domain/repository"
	"github.com/railatlas-loader/internal/pkg/errors"
	"github.com/railatlas-loader/internal/pkg/validator"
)

// Crosswalk CSV column names, as authored in the source file.
const (
	crosswalkStopIDColumn = "stop_id"
	crosswalkNameColumn   = "clean_station_name"
	crosswalkLine1Column  = "Line1"
	crosswalkLine2Column  = "Line2"
)

type csvCrosswalkSource struct {
	path   string
	logger *zap.Logger
}

// NewCrosswalkSource reads the stop crosswalk from the configured CSV
// file. Rows are validated on load; a row without a stop identifier or
// clean name is a data defect that fails the whole load.
func NewCrosswalkSource(cfg *config.SourceConfig, logger *zap.Logger) repository.CrosswalkSource {
	return &csvCrosswalkSource{
		path:   cfg.CrosswalkCSV,
		logger: logger,
	}
}

func (s *csvCrosswalkSource) Load(_ context.Context) (domain.Crosswalk, error) {
	f, err := os.Open(s.path)
	if err != nil {
		s.logger.Error("Failed to open crosswalk file", zap.String("path", s.path), zap.Error(err))
		return nil, errors.ErrImportError
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		s.logger.Error("Failed to read crosswalk header", zap.Error(err))
		return nil, errors.ErrImportError
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{crosswalkStopIDColumn, crosswalkNameColumn} {
		if _, ok := columns[required]; !ok {
			return nil, errors.ErrImportError.WithDetails(map[string]interface{}{
				"missing_column": required,
			})
		}
	}

	cell := func(row []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	crosswalk := make(domain.Crosswalk)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.logger.Error("Failed to read crosswalk row", zap.Int("line", line), zap.Error(err))
			return nil, errors.ErrImportError
		}

		stopID, err := strconv.Atoi(cell(row, crosswalkStopIDColumn))
		if err != nil {
			s.logger.Error("Crosswalk row has a non-numeric stop_id", zap.Int("line", line))
			return nil, errors.ErrImportError
		}

		entry := domain.CrosswalkEntry{
			StopID:    stopID,
			CleanName: cell(row, crosswalkNameColumn),
			Line1:     cell(row, crosswalkLine1Column),
			Line2:     cell(row, crosswalkLine2Column),
		}
		if err := validator.Validate(entry); err != nil {
			s.logger.Error("Invalid crosswalk row", zap.Int("line", line), zap.Error(err))
			return nil, errors.ErrImportError
		}
		crosswalk[stopID] = entry
	}

	s.logger.Info("Crosswalk loaded", zap.Int("entries", len(crosswalk)))
	return crosswalk, nil
}
