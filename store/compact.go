package store

// Compact rewrites the store to contain only the fixed singletons, every
// address below EndOfConstant, retain, and the transitive closure of
// addresses those reach through composite children — preserving the
// invariant that every child address refers to an address still present in
// the rewritten store. It returns the old->new address remap; callers are
// responsible for updating any addresses they hold outside the Store (spec
// §5).
func (s *Store) Compact(retain []Address) (map[Address]Address, error) {
	keep := make(map[Address]bool)
	keep[AddrUnit] = true
	keep[AddrTrue] = true
	keep[AddrFalse] = true
	for a := Address(0); int(a) < s.endOfConstants && int(a) < len(s.values); a++ {
		keep[a] = true
	}

	var walk func(a Address) error
	walk = func(a Address) error {
		if keep[a] {
			return nil
		}
		keep[a] = true
		v, err := s.at(a)
		if err != nil {
			return err
		}
		switch v.Kind {
		case KindPair, KindRange, KindConcatenation, KindPartial:
			if err := walk(v.Left); err != nil {
				return err
			}
			if err := walk(v.Right); err != nil {
				return err
			}
		case KindList:
			for _, e := range v.Elements {
				if err := walk(e); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, a := range retain {
		if err := walk(a); err != nil {
			return nil, err
		}
	}

	oldToNew := make(map[Address]Address, len(keep))
	newValues := make([]Value, 0, len(keep))
	for old := Address(0); int(old) < len(s.values); old++ {
		if !keep[old] {
			continue
		}
		oldToNew[old] = Address(len(newValues))
		newValues = append(newValues, s.values[old])
	}

	remap := func(a Address) Address {
		if n, ok := oldToNew[a]; ok {
			return n
		}
		return a
	}

	for i := range newValues {
		v := &newValues[i]
		switch v.Kind {
		case KindPair, KindRange, KindConcatenation, KindPartial:
			v.Left = remap(v.Left)
			v.Right = remap(v.Right)
		case KindList:
			elems := make([]Address, len(v.Elements))
			for i, e := range v.Elements {
				elems[i] = remap(e)
			}
			assocs := make([]Address, len(v.Associations))
			for i, e := range v.Associations {
				assocs[i] = remap(e)
			}
			v.Elements = elems
			v.Associations = assocs
		}
	}

	s.values = newValues

	s.numberIndex = make(map[numberKey]Address, len(s.numberIndex))
	s.symbolIndex = make(map[uint64]Address, len(s.symbolIndex))
	s.charListIndex = make(map[string]Address, len(s.charListIndex))
	for i, v := range newValues {
		switch v.Kind {
		case KindNumber:
			s.numberIndex[keyOf(v.Number)] = Address(i)
		case KindSymbol:
			s.symbolIndex[v.Symbol] = Address(i)
		case KindCharList:
			s.charListIndex[v.Text] = Address(i)
		}
	}

	s.registerStack = remapStack(s.registerStack, oldToNew)
	s.valueStack = remapStack(s.valueStack, oldToNew)

	return oldToNew, nil
}

func remapStack(stack []Address, oldToNew map[Address]Address) []Address {
	out := make([]Address, 0, len(stack))
	for _, a := range stack {
		if n, ok := oldToNew[a]; ok {
			out = append(out, n)
		}
	}
	return out
}
