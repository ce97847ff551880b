package workflows

import "employer-registration/activities"

// a is never dereferenced. It lets the workflow name a.UploadAsset and
// a.SubmitRegistration; the activity worker registers the real struct.
var a *activities.Activities
