package scoring

import "time"

// Defaults returns the default report options.
func Defaults() Options {
	return Options{
		CloseMargin:  5.0,
		RecentWindow: 7 * 24 * time.Hour,
	}
}

// withDefaults fills zero fields from Defaults.
func (o Options) withDefaults() Options {
	d := Defaults()
	if o.CloseMargin <= 0 {
		o.CloseMargin = d.CloseMargin
	}
	if o.RecentWindow <= 0 {
		o.RecentWindow = d.RecentWindow
	}
	return o
}
