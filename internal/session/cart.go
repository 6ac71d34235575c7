package session

// CartLine - позиция корзины
type CartLine struct {
	ItemID   string
	Quantity int
}

// Cart хранит позиции в порядке добавления; количество всегда положительное
type Cart struct {
	lines []CartLine
}

// Add увеличивает количество позиции на 1 и возвращает новое количество
func (c *Cart) Add(itemID string) int {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity++
			return c.lines[i].Quantity
		}
	}
	c.lines = append(c.lines, CartLine{ItemID: itemID, Quantity: 1})
	return 1
}

// Remove уменьшает количество на 1; на нуле позиция удаляется.
// Возвращает оставшееся количество (0, если позиции нет).
func (c *Cart) Remove(itemID string) int {
	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		c.lines[i].Quantity--
		if c.lines[i].Quantity > 0 {
			return c.lines[i].Quantity
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return 0
	}
	return 0
}

func (c *Cart) Quantity(itemID string) int {
	for _, l := range c.lines {
		if l.ItemID == itemID {
			return l.Quantity
		}
	}
	return 0
}

// Lines возвращает копию позиций
func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}
