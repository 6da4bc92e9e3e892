package restyutil

import (
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

// InstrumentClient dumps every request/response pair the client makes
// to the given output, one file per exchange. `output` can be nil, if
// it is, then the function is a no-op.
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64

	client.OnAfterResponse(func(cli *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		output.Write(
			fmt.Sprintf("%03d_%s", id, res.Request.Method),
			formatHttpMessage(res),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		id := atomic.AddUint64(&idcounter, 1)
		output.Write(
			fmt.Sprintf("%03d_%s_error", id, req.Method),
			fmt.Sprintf("%s %s\n\n%s", req.Method, req.URL, err.Error()),
		)
	})
}
