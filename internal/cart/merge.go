package cart

// The functions below never modify their input. A matched entry is taken out
// of its slot and re-appended after the update, so the most recently touched
// product is always last.

func withAdded(c Cart, p Product) Cart {
	if i := c.Index(p.ID); i >= 0 {
		item := c[i]
		item.Quantity++
		return moveToEnd(c, i, item)
	}
	next := make(Cart, 0, len(c)+1)
	next = append(next, c...)
	return append(next, LineItem{Product: p, Quantity: 1})
}

func withIncremented(c Cart, id string) (Cart, bool) {
	i := c.Index(id)
	if i < 0 {
		return c.Clone(), false
	}
	item := c[i]
	item.Quantity++
	return moveToEnd(c, i, item), true
}

func withDecremented(c Cart, id string) (Cart, bool) {
	i := c.Index(id)
	if i < 0 {
		return c.Clone(), false
	}
	item := c[i]
	if item.Quantity > 1 {
		item.Quantity--
		return moveToEnd(c, i, item), true
	}
	return without(c, i), true
}

func moveToEnd(c Cart, i int, item LineItem) Cart {
	next := without(c, i)
	return append(next, item)
}

func without(c Cart, i int) Cart {
	next := make(Cart, 0, len(c))
	next = append(next, c[:i]...)
	return append(next, c[i+1:]...)
}
