package audit

import (
	"bufio"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// writeFindings writes one JSON object per finding to the given file.
func writeFindings(path string, findings []Finding) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	var e jx.Encoder
	for _, finding := range findings {
		e.Reset()
		encodeFinding(&e, finding)
		if _, err := w.Write(e.Bytes()); err != nil {
			return errors.Wrap(err, "write finding")
		}
		if err := w.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "write finding")
		}
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "flush findings")
	}
	return f.Close()
}

func encodeFinding(e *jx.Encoder, f Finding) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(uuid.New().String()) })
		e.Field("order_id", func(e *jx.Encoder) { e.Int64(f.OrderID) })
		if f.ItemID != 0 {
			e.Field("order_item_id", func(e *jx.Encoder) { e.Int64(f.ItemID) })
		}
		e.Field("check", func(e *jx.Encoder) { e.Str(f.Check) })
		if f.Want != "" {
			e.Field("want", func(e *jx.Encoder) { e.Str(f.Want) })
		}
		if f.Got != "" {
			e.Field("got", func(e *jx.Encoder) { e.Str(f.Got) })
		}
	})
}
