package leave

import "strings"

// Bucket identifies one leave-type balance bucket. Every bucket owns a pair of
// integer columns on the leave_balances row: an available count and an approved
// count.
type Bucket int

const (
	BucketCasual Bucket = iota
	BucketRestRecreation
	BucketLeaveNotDue
	BucketStudy
	BucketExPakistan
	BucketExtraOrdinary
	BucketDisability
	BucketLPR
	BucketMedical
	BucketMaternity
	BucketPaternity
	BucketIddat
	BucketHajj
	BucketFatalMedicalEmergency
	BucketEarnedEncashable
	BucketEarnedNonEncashable
)

// Buckets lists every bucket in column order.
var Buckets = []Bucket{
	BucketCasual,
	BucketRestRecreation,
	BucketLeaveNotDue,
	BucketStudy,
	BucketExPakistan,
	BucketExtraOrdinary,
	BucketDisability,
	BucketLPR,
	BucketMedical,
	BucketMaternity,
	BucketPaternity,
	BucketIddat,
	BucketHajj,
	BucketFatalMedicalEmergency,
	BucketEarnedEncashable,
	BucketEarnedNonEncashable,
}

type bucketInfo struct {
	name            string
	availableColumn string
	approvedColumn  string
}

var bucketTable = map[Bucket]bucketInfo{
	BucketCasual:                {"Casual", "casual_available", "casual_approved"},
	BucketRestRecreation:        {"Rest & Recreation", "rest_recreation_available", "rest_recreation_approved"},
	BucketLeaveNotDue:           {"Leave Not Due", "leave_not_due_available", "leave_not_due_approved"},
	BucketStudy:                 {"Study", "study_available", "study_approved"},
	BucketExPakistan:            {"Ex-Pakistan", "ex_pakistan_available", "ex_pakistan_approved"},
	BucketExtraOrdinary:         {"Extra Ordinary", "extra_ordinary_available", "extra_ordinary_approved"},
	BucketDisability:            {"Disability", "disability_available", "disability_approved"},
	BucketLPR:                   {"LPR", "lpr_available", "lpr_approved"},
	BucketMedical:               {"Medical", "medical_available", "medical_approved"},
	BucketMaternity:             {"Maternity", "maternity_available", "maternity_approved"},
	BucketPaternity:             {"Paternity", "paternity_available", "paternity_approved"},
	BucketIddat:                 {"Iddat", "iddat_available", "iddat_approved"},
	BucketHajj:                  {"Hajj", "hajj_available", "hajj_approved"},
	BucketFatalMedicalEmergency: {"Fatal Medical Emergency", "fatal_medical_emergency_available", "fatal_medical_emergency_approved"},
	BucketEarnedEncashable:      {"Earned (Encashable)", "earned_encashable_available", "earned_encashable_approved"},
	BucketEarnedNonEncashable:   {"Earned (Non-Encashable)", "earned_non_encashable_available", "earned_non_encashable_approved"},
}

func (b Bucket) String() string { return bucketTable[b].name }

// Column names come from the closed table above, never from user input, so
// interpolating them into SQL is safe.
func (b Bucket) AvailableColumn() string { return bucketTable[b].availableColumn }
func (b Bucket) ApprovedColumn() string  { return bucketTable[b].approvedColumn }

// leaveTypeLabels maps the leave-type labels requests are submitted with to
// their bucket. The canonical "Earned Leave" label means the non-encashable
// earned bucket.
var leaveTypeLabels = map[string]Bucket{
	"Casual Leave":                  BucketCasual,
	"Rest & Recreation Leave":       BucketRestRecreation,
	"Leave Not Due":                 BucketLeaveNotDue,
	"Study Leave":                   BucketStudy,
	"Ex-Pakistan Leave":             BucketExPakistan,
	"Extra Ordinary Leave":          BucketExtraOrdinary,
	"Disability Leave":              BucketDisability,
	"LPR":                           BucketLPR,
	"Medical Leave":                 BucketMedical,
	"Maternity Leave":               BucketMaternity,
	"Paternity Leave":               BucketPaternity,
	"Iddat Leave":                   BucketIddat,
	"Hajj Leave":                    BucketHajj,
	"Fatal Medical Emergency Leave": BucketFatalMedicalEmergency,
	"Earned Leave":                  BucketEarnedNonEncashable,
	"Earned Leave (Encashable)":     BucketEarnedEncashable,
	"Earned Leave (Non-Encashable)": BucketEarnedNonEncashable,
}

var leaveTypeLabelsFolded = func() map[string]Bucket {
	folded := make(map[string]Bucket, len(leaveTypeLabels))
	for label, bucket := range leaveTypeLabels {
		folded[strings.ToLower(label)] = bucket
	}
	return folded
}()

// ResolveLeaveType maps a leave-type label to its bucket. Resolution order:
// exact match, case-insensitive match, then the earned-leave substring
// fallbacks for labels HR systems have historically produced. Unknown labels
// report ok=false and callers must reject them rather than default a bucket.
func ResolveLeaveType(label string) (Bucket, bool) {
	trimmed := strings.TrimSpace(label)
	if bucket, ok := leaveTypeLabels[trimmed]; ok {
		return bucket, true
	}
	lower := strings.ToLower(trimmed)
	if bucket, ok := leaveTypeLabelsFolded[lower]; ok {
		return bucket, true
	}
	if strings.Contains(lower, "encashable") {
		return BucketEarnedEncashable, true
	}
	if strings.Contains(lower, "earned") {
		return BucketEarnedNonEncashable, true
	}
	return 0, false
}
