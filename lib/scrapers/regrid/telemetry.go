package regrid

import (
	"deedscout-backend/lib/restyutil"
	"deedscout-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("deedscout.lib.scrapers.regrid")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
