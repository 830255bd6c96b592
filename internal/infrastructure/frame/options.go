package frame

type Option func(*Processor)

func Size(width, height int) Option {
	return func(p *Processor) {
		if width > 0 && height > 0 {
			p.width, p.height = width, height
		}
	}
}

// Quality is the JPEG quality, 1..100.
func Quality(q int) Option {
	return func(p *Processor) {
		if q >= 1 && q <= 100 {
			p.quality = q
		}
	}
}

func Timestamp(enabled bool) Option {
	return func(p *Processor) {
		p.timestamp = enabled
	}
}
