package pag

import "context"

// LoadListener receives the result of LoadAsync.
type LoadListener interface {
	// OnLoad is called once with the loaded file, or nil if loading failed.
	// It runs on a goroutine owned by LoadAsync.
	OnLoad(f *File)
}

// LoadListenerFunc adapts a function to LoadListener.
type LoadListenerFunc func(f *File)

// OnLoad calls fn(f).
func (fn LoadListenerFunc) OnLoad(f *File) {
	fn(f)
}

// LoadAsync loads path on a new goroutine and delivers the result to l.
// If ctx is done before loading starts, l receives nil.
// The listener owns the delivered File and must release it.
func LoadAsync(ctx context.Context, path string, l LoadListener) {
	if l == nil {
		return
	}
	go func() {
		var f *File
		if ctx.Err() == nil {
			f = Load(path)
		}
		l.OnLoad(f)
	}()
}
