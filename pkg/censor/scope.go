package censor

// Session describes the invocation a transform runs for. Scopes inspect it to decide
// whether an interceptor applies.
type Session struct {
	Platform  string `json:"platform,omitempty" toml:"platform"`
	SelfID    string `json:"self_id,omitempty" toml:"selfId"`
	GuildID   string `json:"guild_id,omitempty" toml:"guildId"`
	ChannelID string `json:"channel_id,omitempty" toml:"channelId"`
	UserID    string `json:"user_id,omitempty" toml:"userId"`
}

// Scope reports whether an interceptor applies to a session. A nil Scope applies everywhere.
type Scope func(sess *Session) bool

// Global applies to every invocation.
var Global Scope

func (s Scope) accepts(sess *Session) bool {
	if s == nil {
		return true
	}
	return s(sess)
}

// Platforms matches sessions from any of the listed platforms.
func Platforms(platforms ...string) Scope {
	return fieldIn(func(s *Session) string { return s.Platform }, platforms)
}

// Guilds matches sessions in any of the listed guilds.
func Guilds(ids ...string) Scope {
	return fieldIn(func(s *Session) string { return s.GuildID }, ids)
}

// Channels matches sessions in any of the listed channels.
func Channels(ids ...string) Scope {
	return fieldIn(func(s *Session) string { return s.ChannelID }, ids)
}

// Users matches sessions of any of the listed users.
func Users(ids ...string) Scope {
	return fieldIn(func(s *Session) string { return s.UserID }, ids)
}

// Not inverts a scope.
func Not(scope Scope) Scope {
	return func(sess *Session) bool {
		return !scope.accepts(sess)
	}
}

// All matches when every scope matches. Nil scopes are skipped.
func All(scopes ...Scope) Scope {
	return func(sess *Session) bool {
		for _, s := range scopes {
			if !s.accepts(sess) {
				return false
			}
		}
		return true
	}
}

// An empty list yields the global scope.
func fieldIn(field func(*Session) string, values []string) Scope {
	if len(values) == 0 {
		return Global
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(sess *Session) bool {
		if sess == nil {
			return false
		}
		_, ok := set[field(sess)]
		return ok
	}
}
