package realauction

import (
	"deedscout-backend/lib/restyutil"
	"deedscout-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("deedscout.lib.scrapers.realauction")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
