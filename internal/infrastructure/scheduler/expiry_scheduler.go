// Package scheduler ejecuta trabajos periódicos del libro de lotes.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// Sweeper lo que el scheduler necesita del barrido de vencimientos.
type Sweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// ExpirySchedulerConfig configuración del barrido periódico.
type ExpirySchedulerConfig struct {
	Enabled    bool
	Interval   time.Duration // cada cuánto corre el barrido
	Timeout    time.Duration // tiempo máximo de una ejecución
	RunOnStart bool
}

// ExpiryScheduler ejecuta SweepExpired con un ticker.
type ExpiryScheduler struct {
	sweeper Sweeper
	log     *logger.Logger
	config  ExpirySchedulerConfig
	now     func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewExpiryScheduler construye el scheduler.
func NewExpiryScheduler(sweeper Sweeper, log *logger.Logger, config ExpirySchedulerConfig) *ExpiryScheduler {
	if log == nil {
		log = logger.Nop()
	}
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Minute
	}
	return &ExpiryScheduler{sweeper: sweeper, log: log, config: config, now: time.Now}
}

// Start arranca el ciclo en segundo plano. Llamadas repetidas no hacen nada.
func (s *ExpiryScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.log.Info().Msg("barrido de vencimientos deshabilitado")
		return nil
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	s.log.Info().Dur("interval", s.config.Interval).Msg("barrido de vencimientos iniciado")
	return nil
}

// Stop detiene el ciclo y espera la ejecución en curso hasta que ctx expire.
func (s *ExpiryScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info().Msg("barrido de vencimientos detenido")
		return nil
	case <-ctx.Done():
		s.log.Warn().Msg("tiempo agotado deteniendo el barrido de vencimientos")
		return ctx.Err()
	}
}

// RunOnce ejecuta un barrido con el timeout configurado.
func (s *ExpiryScheduler) RunOnce(ctx context.Context) (int, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	started := s.now()
	n, err := s.sweeper.SweepExpired(runCtx, started)
	if err != nil {
		s.log.Error().Err(err).Int("expired", n).Msg("barrido de vencimientos con errores")
		return n, err
	}
	s.log.Debug().Int("expired", n).Dur("took", time.Since(started)).Msg("barrido de vencimientos terminado")
	return n, nil
}

func (s *ExpiryScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		_, _ = s.RunOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}
