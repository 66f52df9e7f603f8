package report

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/reportd/reportd/internal/module/report/store"
	apperrors "github.com/reportd/reportd/internal/shared/errors"
	"github.com/reportd/reportd/internal/shared/events"
	"github.com/reportd/reportd/internal/shared/logger"
	"github.com/reportd/reportd/internal/shared/metrics"
)

// Service dispatches report generation between sync delivery and the
// key-addressed artifact cache.
type Service struct {
	store    store.Store
	renderer Renderer
	bus      *events.Bus
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewService creates a report service. bus and m may be nil.
func NewService(st store.Store, renderer Renderer, bus *events.Bus, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.New(nil)
	}
	return &Service{
		store:    st,
		renderer: renderer,
		bus:      bus,
		metrics:  m,
		log:      log,
	}
}

// Generate renders the requested report. Async PDF results are parked in
// the artifact store and addressed by the returned key; everything else
// carries the rendered bytes directly.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if len(req.Report) == 0 || bytes.Equal(req.Report, []byte("null")) {
		return nil, apperrors.Validation("no report definition provided")
	}

	format, ok := ParseFormat(req.OutputFormat)
	if !ok {
		return nil, apperrors.UnsupportedFormat(req.OutputFormat)
	}

	start := time.Now()
	payload, err := s.renderer.Render(ctx, req.Report, req.Data, format)
	s.recordRender(format, err, time.Since(start))
	if err != nil {
		s.log.Warn("report render failed",
			"format", string(format),
			"error", err,
		)
		return nil, err
	}

	if format == FormatPDF && req.DeliveryMode(format) == ModeAsync {
		key, err := s.store.Put(ctx, payload, string(format))
		if err != nil {
			return nil, apperrors.Storage(err)
		}

		s.log.Info("report generated and cached",
			"key", key,
			"format", string(format),
			"size", len(payload),
		)
		s.publish(events.NewReportGeneratedEvent(key, string(format), len(payload), true))
		return &GenerateResult{Key: key, Format: format}, nil
	}

	s.log.Info("report generated",
		"format", string(format),
		"size", len(payload),
	)
	s.publish(events.NewReportGeneratedEvent("", string(format), len(payload), false))
	return &GenerateResult{Payload: payload, Format: format}, nil
}

// Fetch returns a stored artifact by key. Unknown and expired keys are
// indistinguishable to the caller.
func (s *Service) Fetch(ctx context.Context, key string) ([]byte, OutputFormat, error) {
	payload, format, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if s.metrics != nil {
				s.metrics.RecordCacheMiss()
			}
			s.publish(events.NewReportFetchedEvent(key, "", false))
			return nil, "", apperrors.NotFound("report")
		}
		return nil, "", apperrors.Storage(err)
	}

	if s.metrics != nil {
		s.metrics.RecordCacheHit()
	}
	s.publish(events.NewReportFetchedEvent(key, format, true))
	return payload, OutputFormat(format), nil
}

// CacheInfo returns a diagnostics snapshot of the artifact store.
func (s *Service) CacheInfo(ctx context.Context) (*CacheInfo, error) {
	infos, err := s.store.Inspect(ctx)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	items := make([]CacheItem, len(infos))
	for i, info := range infos {
		items[i] = CacheItem{
			Key:        info.Key,
			Format:     info.Format,
			Size:       info.Size,
			AgeSeconds: info.AgeSeconds,
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })

	if s.metrics != nil {
		s.metrics.SetCacheEntries(len(items))
	}

	return &CacheInfo{
		TTLSeconds: int64(s.store.TTL() / time.Second),
		CacheSize:  len(items),
		Items:      items,
	}, nil
}

func (s *Service) publish(event events.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

func (s *Service) recordRender(format OutputFormat, err error, d time.Duration) {
	if s.metrics == nil {
		return
	}

	status := "ok"
	if err != nil {
		switch apperrors.GetCode(err) {
		case "VALIDATION_ERROR", "UNSUPPORTED_FORMAT":
			status = "validation_error"
		default:
			status = "generation_error"
		}
	}
	s.metrics.RecordRender(string(format), status, d)
}
