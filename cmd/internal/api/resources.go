package api

import "context"

// Horses wraps the /horses endpoints.
type Horses struct{ c *Client }

func (h Horses) List(ctx context.Context) ([]Horse, error) {
	var out []Horse
	err := h.c.get(ctx, "/horses", &out)
	return out, err
}

func (h Horses) Get(ctx context.Context, id string) (Horse, error) {
	var out Horse
	err := h.c.get(ctx, "/horses/"+id, &out)
	return out, err
}

func (h Horses) Create(ctx context.Context, in HorseInput) (Horse, error) {
	var out Horse
	err := h.c.post(ctx, "/horses", in, &out)
	return out, err
}

func (h Horses) Update(ctx context.Context, id string, in HorseInput) (Horse, error) {
	var out Horse
	err := h.c.put(ctx, "/horses/"+id, in, &out)
	return out, err
}

func (h Horses) Delete(ctx context.Context, id string) error {
	return h.c.delete(ctx, "/horses/"+id)
}

// Establishments wraps the /establishments endpoints.
type Establishments struct{ c *Client }

func (e Establishments) List(ctx context.Context) ([]Establishment, error) {
	var out []Establishment
	err := e.c.get(ctx, "/establishments", &out)
	return out, err
}

func (e Establishments) Get(ctx context.Context, id string) (Establishment, error) {
	var out Establishment
	err := e.c.get(ctx, "/establishments/"+id, &out)
	return out, err
}

func (e Establishments) Create(ctx context.Context, in EstablishmentInput) (Establishment, error) {
	var out Establishment
	err := e.c.post(ctx, "/establishments", in, &out)
	return out, err
}

func (e Establishments) Update(ctx context.Context, id string, in EstablishmentInput) (Establishment, error) {
	var out Establishment
	err := e.c.put(ctx, "/establishments/"+id, in, &out)
	return out, err
}

func (e Establishments) Delete(ctx context.Context, id string) error {
	return e.c.delete(ctx, "/establishments/"+id)
}

// Events wraps the /events endpoints.
type Events struct{ c *Client }

func (ev Events) List(ctx context.Context) ([]Event, error) {
	var out []Event
	err := ev.c.get(ctx, "/events", &out)
	return out, err
}

func (ev Events) Get(ctx context.Context, id string) (Event, error) {
	var out Event
	err := ev.c.get(ctx, "/events/"+id, &out)
	return out, err
}

func (ev Events) Create(ctx context.Context, in EventInput) (Event, error) {
	var out Event
	err := ev.c.post(ctx, "/events", in, &out)
	return out, err
}

func (ev Events) Update(ctx context.Context, id string, in EventInput) (Event, error) {
	var out Event
	err := ev.c.put(ctx, "/events/"+id, in, &out)
	return out, err
}

func (ev Events) Delete(ctx context.Context, id string) error {
	return ev.c.delete(ctx, "/events/"+id)
}

// Tasks wraps the /tasks endpoints.
type Tasks struct{ c *Client }

func (t Tasks) List(ctx context.Context) ([]Task, error) {
	var out []Task
	err := t.c.get(ctx, "/tasks", &out)
	return out, err
}

func (t Tasks) Get(ctx context.Context, id string) (Task, error) {
	var out Task
	err := t.c.get(ctx, "/tasks/"+id, &out)
	return out, err
}

func (t Tasks) Create(ctx context.Context, in TaskInput) (Task, error) {
	var out Task
	err := t.c.post(ctx, "/tasks", in, &out)
	return out, err
}

func (t Tasks) Update(ctx context.Context, id string, in TaskInput) (Task, error) {
	var out Task
	err := t.c.put(ctx, "/tasks/"+id, in, &out)
	return out, err
}

func (t Tasks) Delete(ctx context.Context, id string) error {
	return t.c.delete(ctx, "/tasks/"+id)
}
