package manifold

// PublishAllOption configures PublishAll.
type PublishAllOption func(*publishAllConfig)

type publishAllConfig struct {
	concurrency int
}

// WithConcurrency bounds how many publishes run at once. The default is 4.
func WithConcurrency(n int) PublishAllOption {
	return func(cfg *publishAllConfig) {
		if n > 0 {
			cfg.concurrency = n
		}
	}
}
