package version

import "testing"

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestUserAgent(t *testing.T) {
	if UserAgent() != "notionbridge/"+Version {
		t.Errorf("unexpected user agent: %s", UserAgent())
	}
}
