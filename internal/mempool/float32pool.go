// Package mempool recycles the float32 buffers that hold model input tensors.
package mempool

import "sync"

const classStep = 1024

var pools sync.Map // size class -> *sync.Pool

// sizeClass rounds n up to a multiple of 1024, with 1024 as the minimum.
func sizeClass(n int) int {
	if n <= classStep {
		return classStep
	}
	return (n + classStep - 1) / classStep * classStep
}

func poolFor(cls int) *sync.Pool {
	p, _ := pools.LoadOrStore(cls, &sync.Pool{New: func() any {
		buf := make([]float32, cls)
		return &buf
	}})
	return p.(*sync.Pool)
}

// GetFloat32 returns a buffer of length n. Its contents are unspecified;
// callers overwrite every element. Return it with PutFloat32.
func GetFloat32(n int) []float32 {
	if n < 0 {
		n = 0
	}
	cls := sizeClass(n)
	bp := poolFor(cls).Get().(*[]float32)
	buf := *bp
	if cap(buf) < cls {
		buf = make([]float32, cls)
	}
	return buf[:n]
}

// PutFloat32 hands buf back for reuse. Buffers that did not come from
// GetFloat32 are accepted if their capacity is a whole size class. nil is
// ignored.
func PutFloat32(buf []float32) {
	if buf == nil || cap(buf)%classStep != 0 {
		return
	}
	buf = buf[:cap(buf)]
	poolFor(cap(buf)).Put(&buf)
}
