package message

// Create instructs the client to create an element. attrs are merged into
// the payload; empty style and falsy on* flags are omitted.
func Create(tag, id, parent string, attrs map[string]any) Message {
	data := make(map[string]any, len(attrs)+3)
	for k, v := range attrs {
		if omitOnCreate(k, v) {
			continue
		}
		data[k] = v
	}
	data["tag"] = tag
	data["id"] = id
	data["parent"] = parent
	return newMessage(EventCreate, data)
}

func omitOnCreate(key string, v any) bool {
	switch key {
	case "onclick", "oninput", "onchange":
		b, ok := v.(bool)
		return ok && !b
	case "style":
		switch s := v.(type) {
		case map[string]any:
			return len(s) == 0
		case map[string]string:
			return len(s) == 0
		}
	}
	return v == nil
}

// CreateText instructs the client to append a text node to parent.
func CreateText(parent, text string) Message {
	return newMessage(EventCreate, map[string]any{
		"parent": parent,
		"text":   text,
	})
}

// Update carries changed attributes of an element. A nil value unsets the
// attribute on the client.
func Update(id string, attrs map[string]any) Message {
	data := make(map[string]any, len(attrs)+1)
	for k, v := range attrs {
		data[k] = v
	}
	data["id"] = id
	return newMessage(EventUpdate, data)
}

// Remove instructs the client to remove an element and its subtree.
func Remove(id string) Message {
	return newMessage(EventRemove, map[string]any{"id": id})
}

// Clear instructs the client to remove all children of an element.
func Clear(id string) Message {
	return newMessage(EventClear, map[string]any{"id": id})
}

// HTML replaces the inner HTML of an element.
func HTML(id, html string) Message {
	return newMessage(EventHTML, map[string]any{"id": id, "html": html})
}

// Function declares a client procedure.
func Function(name string, params []string, body string) Message {
	if params == nil {
		params = []string{}
	}
	return newMessage(EventFunction, map[string]any{
		"name":   name,
		"params": params,
		"body":   body,
	})
}

// Execute calls a declared client procedure. If store is non-empty the
// client keeps the return value under that name.
func Execute(name string, args []any, store string) Message {
	if args == nil {
		args = []any{}
	}
	data := map[string]any{"name": name, "args": args}
	if store != "" {
		data["store"] = store
	}
	return newMessage(EventExecute, data)
}

// Log shows a severity-tagged message to the user. details is optional.
func Log(level Level, msg string, details any) Message {
	data := map[string]any{"level": string(level), "message": msg}
	if details != nil {
		data["details"] = details
	}
	return newMessage(EventLog, data)
}

// Cookie sets a cookie on the client for the given number of days.
func Cookie(name, value string, days int) Message {
	return newMessage(EventCookie, map[string]any{"name": name, "value": value, "days": days})
}

// Title sets the document title.
func Title(title string) Message {
	return newMessage(EventTitle, map[string]any{"title": title})
}

// Theme switches the client theme ("light" or "dark").
func Theme(theme string) Message {
	return newMessage(EventTheme, map[string]any{"theme": theme})
}

// HistoryPush pushes a history entry.
func HistoryPush(state any, url string) Message {
	return newMessage(EventHistory, map[string]any{"push": state, "url": url})
}

// HistoryReplace replaces the current history entry.
func HistoryReplace(state any, url string) Message {
	return newMessage(EventHistory, map[string]any{"replace": state, "url": url})
}

// HistoryGo moves delta steps through the history.
func HistoryGo(delta int) Message {
	return newMessage(EventHistory, map[string]any{"go": delta})
}

// Location navigates the client to url with a full page load.
func Location(url string) Message {
	return newMessage(EventLocation, map[string]any{"url": url})
}

// Data writes (or with a nil value, deletes) a client storage entry.
func Data(key string, value *string) Message {
	data := map[string]any{"key": key, "value": nil}
	if value != nil {
		data["value"] = *value
	}
	return newMessage(EventData, data)
}

// Flush marks the end of a batch; the client applies queued messages when
// it receives it.
func Flush() Message {
	return newMessage(EventFlush, nil)
}

// CreateTextAt inserts a text node into parent at position.
func CreateTextAt(parent, text string, position int) Message {
	return newMessage(EventCreate, map[string]any{
		"parent":   parent,
		"text":     text,
		"position": position,
	})
}
