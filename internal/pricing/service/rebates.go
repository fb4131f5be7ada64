package service

import (
	"math"
	"strings"
	"time"

	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
)

// Federal battery rebate brackets, keyed by usable capacity. The amounts
// follow the national battery program schedule current at seed time.
type batteryBracket struct {
	MinKWH float64
	Amount float64
}

var federalBatteryBrackets = []batteryBracket{
	{MinKWH: 20, Amount: 6600},
	{MinKWH: 13.5, Amount: 4450},
	{MinKWH: 10, Amount: 3300},
	{MinKWH: 5, Amount: 1650},
}

// State battery rebate: a flat amount for any qualifying battery installed
// in the serviced state.
const (
	stateBatteryRebateAmount = 1300
	stateBatteryMinKWH       = 5
)

// CalculateRebates applies the certificate-based solar rebate plus the
// federal and state battery rebates. A postcode outside every configured
// zone fails with UnknownZoneError; the multiplier is never defaulted.
// The after-rebate total floors at zero: excess rebate is discarded, not
// refunded.
func CalculateRebates(
	snap catalogdomain.Snapshot,
	settings settingsdomain.Settings,
	sizing domain.Sizing,
	costs domain.CostBreakdown,
	postcode int,
	state string,
	now time.Time,
) (domain.RebateBreakdown, error) {
	zone, ok := snap.ZoneFor(postcode)
	if !ok {
		return domain.RebateBreakdown{}, &domain.UnknownZoneError{Postcode: postcode}
	}

	out := domain.RebateBreakdown{
		Zone:             zone.Zone,
		ZoneMultiplier:   zone.Multiplier,
		DeemingYears:     settings.DeemingYears(now),
		CertificatePrice: settings.CertificatePrice,
	}

	// One certificate per deemed MWh, rounded down per the scheme rules.
	deemedMWH := sizing.SystemKW * zone.Multiplier * float64(out.DeemingYears)
	out.CertificateCount = int(math.Floor(deemedMWH))
	out.SolarRebate = float64(out.CertificateCount) * settings.CertificatePrice

	if sizing.BatteryKWH > 0 {
		out.FederalBatteryRebate = federalBatteryRebate(sizing.BatteryKWH)
		if strings.EqualFold(strings.TrimSpace(state), settings.ServicedState) && sizing.BatteryKWH >= stateBatteryMinKWH {
			out.StateBatteryRebate = stateBatteryRebateAmount
		}
	}

	out.TotalRebates = out.SolarRebate + out.FederalBatteryRebate + out.StateBatteryRebate
	out.TotalAfterRebates = costs.TotalBeforeRebates - out.TotalRebates
	if out.TotalAfterRebates < 0 {
		out.TotalAfterRebates = 0
	}

	return out, nil
}

func federalBatteryRebate(batteryKWH float64) float64 {
	for _, b := range federalBatteryBrackets {
		if batteryKWH >= b.MinKWH {
			return b.Amount
		}
	}
	return 0
}
