package editor

// Merge combines two descriptors that share a key. base is the existing
// value and incoming the patch; neither is modified.
//
// Field rules:
//   - Enabled, Type: incoming wins when it specifies a value.
//   - Component and scalar handlers: incoming wins when it specifies one and
//     its priority is at least base's, or when base has none.
//   - Priority: the higher of the two.
//   - Options: shallow merge, incoming keys replacing base keys.
//   - List handlers: base entries first, then incoming entries.
//   - Plugins: merged by key; children new to base are appended in
//     incoming order.
func Merge(base, incoming *Plugin) *Plugin {
	if base == nil {
		return incoming.Clone()
	}
	if incoming == nil {
		return base.Clone()
	}

	out := base.Clone()
	if out.Key == "" {
		out.Key = incoming.Key
	}
	if incoming.Enabled != nil {
		out.Enabled = Bool(*incoming.Enabled)
	}
	if incoming.Type != "" {
		out.Type = incoming.Type
	}

	incomingWins := incoming.Priority >= base.Priority
	if incoming.Component != nil && (incomingWins || base.Component == nil) {
		out.Component = incoming.Component
	}
	if incoming.Priority > out.Priority {
		out.Priority = incoming.Priority
	}

	out.Options = mergeOptions(base.Options, incoming.Options)
	out.Handlers = mergeHandlers(base.Handlers, incoming.Handlers, incomingWins)
	out.Plugins = mergeChildren(base.Plugins, incoming.Plugins)
	return out
}

func mergeOptions(base, incoming Options) Options {
	if len(incoming) == 0 {
		return base.clone()
	}
	out := make(Options, len(base)+len(incoming))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}

func mergeHandlers(base, incoming Handlers, incomingWins bool) Handlers {
	out := base.clone()

	if incoming.ExtendEditor != nil && (incomingWins || base.ExtendEditor == nil) {
		out.ExtendEditor = incoming.ExtendEditor
	}
	if incoming.OnKeyDown != nil && (incomingWins || base.OnKeyDown == nil) {
		out.OnKeyDown = incoming.OnKeyDown
	}
	if incoming.OnChange != nil && (incomingWins || base.OnChange == nil) {
		out.OnChange = incoming.OnChange
	}

	out.Normalize = append(out.Normalize, incoming.Normalize...)
	out.DeserializeHTML = append(out.DeserializeHTML, incoming.DeserializeHTML...)
	return out
}

func mergeChildren(base, incoming []*Plugin) []*Plugin {
	if len(incoming) == 0 {
		if base == nil {
			return nil
		}
		return append([]*Plugin(nil), base...)
	}

	patches := make(map[string]*Plugin, len(incoming))
	for _, p := range incoming {
		if existing, ok := patches[p.Key]; ok {
			patches[p.Key] = Merge(existing, p)
			continue
		}
		patches[p.Key] = p
	}

	out := make([]*Plugin, 0, len(base)+len(incoming))
	inBase := make(map[string]bool, len(base))
	for _, child := range base {
		inBase[child.Key] = true
		if patch, ok := patches[child.Key]; ok {
			out = append(out, Merge(child, patch))
			continue
		}
		out = append(out, child)
	}

	appended := make(map[string]bool)
	for _, p := range incoming {
		if inBase[p.Key] || appended[p.Key] {
			continue
		}
		appended[p.Key] = true
		out = append(out, patches[p.Key])
	}
	return out
}
