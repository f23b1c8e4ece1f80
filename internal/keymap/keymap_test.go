package keymap

import "testing"

func TestByContext(t *testing.T) {
	for _, ctx := range []string{ContextGlobal, ContextPlayback, ContextResults, ContextQueue, ContextDownloads, ContextLyrics} {
		bindings := ByContext(ctx)
		if len(bindings) == 0 {
			t.Errorf("ByContext(%q) is empty", ctx)
		}
		for _, b := range bindings {
			if b.Context != ctx {
				t.Errorf("binding %v has context %q, want %q", b.Keys, b.Context, ctx)
			}
		}
	}
	if got := ByContext("unknown"); len(got) != 0 {
		t.Errorf("ByContext(unknown) = %d bindings", len(got))
	}
}

func TestNoDuplicateKeysWithinContext(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range All {
		for _, k := range b.Keys {
			id := b.Context + "/" + k
			if prev, ok := seen[id]; ok {
				t.Errorf("key %q bound to %s and %s in %s", k, prev, b.Action, b.Context)
			}
			seen[id] = b.Action
		}
	}
}

func TestGlobalAndPlaybackKeysDoNotShadowPanels(t *testing.T) {
	global := ForContexts(ContextGlobal, ContextPlayback)
	for _, ctx := range []string{ContextResults, ContextQueue, ContextDownloads, ContextLyrics} {
		for _, b := range ByContext(ctx) {
			for _, k := range b.Keys {
				if a := global.Resolve(k); a != "" {
					t.Errorf("%s key %q is also global action %s", ctx, k, a)
				}
			}
		}
	}
}
