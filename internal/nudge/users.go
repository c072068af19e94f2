package nudge

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slack-go/slack"
)

type userLister interface {
	GetUsers(options ...slack.GetUsersOption) ([]slack.User, error)
}

var slackUserID = regexp.MustCompile(`^[UW][A-Z0-9]{8,}$`)

func isLikelySlackID(val string) bool {
	return slackUserID.MatchString(val)
}

// directory maps lowercased user, real and display names to user IDs. The
// first user claiming a name keeps it.
type directory map[string]string

func newDirectory(users []slack.User) directory {
	d := directory{}
	for _, u := range users {
		for _, name := range [...]string{u.Name, u.RealName, u.Profile.DisplayName} {
			key := strings.ToLower(strings.TrimSpace(name))
			if _, taken := d[key]; key != "" && !taken {
				d[key] = u.ID
			}
		}
	}
	return d
}

// resolveUserIDs turns configured recipients into user IDs, in order and
// without repeats. Raw IDs pass straight through, so the user list is only
// fetched when a name needs looking up.
func resolveUserIDs(api userLister, identifiers []string) (ids, unresolved []string, err error) {
	seen := map[string]bool{}
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var names []string
	for _, raw := range identifiers {
		switch val := strings.TrimSpace(raw); {
		case val == "":
		case isLikelySlackID(val):
			add(val)
		default:
			names = append(names, val)
		}
	}
	if len(names) == 0 {
		return ids, nil, nil
	}

	users, err := api.GetUsers()
	if err != nil {
		return ids, names, fmt.Errorf("list slack users: %w", err)
	}
	dir := newDirectory(users)
	for _, name := range names {
		if id, ok := dir[strings.ToLower(name)]; ok {
			add(id)
		} else {
			unresolved = append(unresolved, name)
		}
	}
	return ids, unresolved, nil
}
