package usercontext

// ContextKey is the fiber Locals key the auth middleware stores the
// resolved user context under.
const ContextKey = "USER_CONTEXT"
