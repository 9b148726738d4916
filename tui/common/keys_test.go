package common

import "testing"

func TestDefaultKeyMap_HasCriticalBindings(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ToggleHints.Keys()) == 0 || km.ToggleHints.Keys()[0] != "?" {
		t.Fatalf("expected ? key binding for hints")
	}
	if len(km.ForceQuit.Keys()) == 0 || km.ForceQuit.Keys()[0] != "ctrl+c" {
		t.Fatalf("expected ctrl+c force quit binding")
	}
	if km.Pause.Keys()[0] != " " {
		t.Fatalf("expected space to toggle playback")
	}
}

func TestDefaultKeyMap_NoFeedCollisions(t *testing.T) {
	km := DefaultKeyMap()
	seen := map[string]string{}
	feed := map[string][]string{
		"quit": km.Quit.Keys(), "refresh": km.Refresh.Keys(), "down": km.Down.Keys(),
		"up": km.Up.Keys(), "first": km.First.Keys(), "last": km.Last.Keys(),
		"pause": km.Pause.Keys(), "mute": km.Mute.Keys(), "like": km.Like.Keys(),
		"comments": km.Comments.Keys(), "share": km.Share.Keys(), "property": km.Property.Keys(),
		"uploader": km.Uploader.Keys(), "search": km.Search.Keys(), "next": km.NextFeed.Keys(),
		"prev": km.PrevFeed.Keys(), "hints": km.ToggleHints.Keys(),
	}
	for name, keys := range feed {
		for _, k := range keys {
			if other, ok := seen[k]; ok {
				t.Fatalf("key %q bound to both %s and %s", k, other, name)
			}
			seen[k] = name
		}
	}
}
