package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/about"

	IssueTokenRoute = "/jwt"

	SaveUserRoute     = "/user"
	GetUserRoute      = "/user/{email}"
	ListUsersRoute    = "/users"
	UpdateUserRoute   = "/users/update/{email}"
	UpdateStatusRoute = "/users/status/update/{email}"
	DeleteUserRoute   = "/users/delete/{email}"

	CreateContestRoute   = "/contests"
	ListContestsRoute    = "/contests"
	AllContestsRoute     = "/all-contests"
	CreatorContestsRoute = "/contests/user/{email}"
	GetContestRoute      = "/contest/{id}"
	UpdateContestRoute   = "/contest/update/{id}"
	DeleteContestRoute   = "/contests/{id}"
	ConfirmContestRoute  = "/contests/confirm/{id}"
	CommentContestRoute  = "/contests/comment/{id}"
	RegisterRoute        = "/contests/register/{id}"

	PopularCreatorsRoute = "/creators/popular"
	PopularContestsRoute = "/contests/popular"

	PaymentIntentRoute = "/create-payment-intent"
)
