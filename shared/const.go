package shared

const (
	UserID = "user_id"

	StatusPending   = "pending"
	StatusReviewed  = "reviewed"
	StatusContacted = "contacted"
	StatusRejected  = "rejected"

	PostCategoryProject     = "project"
	PostCategoryNews        = "news"
	PostCategoryRecruitment = "recruitment"

	FolderPostImages = "post-images"
	FolderCVFiles    = "cv-files"
)

// CVStatuses is the closed set of review states for a CV submission.
// Transitions between them are unconstrained.
var CVStatuses = []string{StatusPending, StatusReviewed, StatusContacted, StatusRejected}

func IsValidCVStatus(status string) bool {
	for _, s := range CVStatuses {
		if s == status {
			return true
		}
	}
	return false
}
