package mgmt

import "strings"

// Fault codes with recognized benign meanings. The set is closed and
// versioned here; new tolerated codes must be added explicitly rather than
// matched ad hoc at call sites.
const (
	faultCodeGeneral          = 100
	faultCodeAlreadyScheduled = 103
	faultCodeUnsupported      = 108
)

// Code 100 is the general fault class, so the two recognized code-100
// conditions carry message discriminators. These are versioned here, the
// only permitted message matches.
const (
	legacyRebalanceMessage = "A directory manager rebalance operation is already scheduled"
	licenseRequiredMessage = "A FlashCloud license is required"
)

func hasFaultCode(err error, code int) bool {
	f, ok := AsFault(err)
	return ok && f.Code == code
}

// IsShelveUnsupported reports the benign maint.setShelve fault raised by
// releases that predate shelve awareness. Callers proceed with the stop
// path as usual.
func IsShelveUnsupported(err error) bool {
	return hasFaultCode(err, faultCodeUnsupported)
}

// IsRebalanceAlreadyScheduled reports the benign maint.rebalanceDirManagers
// fault meaning a rebalance is already pending.
func IsRebalanceAlreadyScheduled(err error) bool {
	if hasFaultCode(err, faultCodeAlreadyScheduled) {
		return true
	}
	f, ok := AsFault(err)
	return ok && f.Code == faultCodeGeneral && f.Message == legacyRebalanceMessage
}

// IsLicenseNotReady reports the corefiler.createCloudFiler fault raised
// while the cloud feature license has not landed yet. Callers re-verify
// the license and retry.
func IsLicenseNotReady(err error) bool {
	f, ok := AsFault(err)
	return ok && f.Code == faultCodeGeneral && strings.Contains(f.Message, licenseRequiredMessage)
}
