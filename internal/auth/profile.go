package auth

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

var errProfileWithoutID = errors.New("user profile has no id")

func parseProfile(raw json.RawMessage) (*UserProfile, error) {
	doc := gjson.ParseBytes(raw)

	id := doc.Get("id").String()
	if id == "" {
		return nil, errProfileWithoutID
	}

	profile := &UserProfile{
		ID:          id,
		DisplayName: doc.Get("display_name").String(),
		Email:       doc.Get("email").String(),
		Country:     doc.Get("country").String(),
		Product:     doc.Get("product").String(),
		Images:      []json.RawMessage{},
	}

	doc.Get("images").ForEach(func(_, image gjson.Result) bool {
		profile.Images = append(profile.Images, json.RawMessage(image.Raw))
		return true
	})

	if followers := doc.Get("followers"); followers.IsObject() {
		profile.Followers = json.RawMessage(followers.Raw)
	}
	if urls := doc.Get("external_urls"); urls.IsObject() {
		profile.ExternalURLs = json.RawMessage(urls.Raw)
	}

	return profile, nil
}
