package store

// Equal implements spec §4.2's structural, cross-kind equality: numbers
// compare cross-kind, pairs/lists compare element-wise, symbols by hash,
// ranges by normalized endpoints.
func (s *Store) Equal(a, b Address) (bool, error) {
	if a == b {
		return true, nil
	}
	va, err := s.at(a)
	if err != nil {
		return false, err
	}
	vb, err := s.at(b)
	if err != nil {
		return false, err
	}

	switch {
	case va.Kind == KindNumber && vb.Kind == KindNumber:
		return va.Number.Equal(vb.Number), nil
	case va.Kind != vb.Kind:
		return false, nil
	}

	switch va.Kind {
	case KindUnit, KindTrue, KindFalse:
		return true, nil
	case KindSymbol:
		return va.Symbol == vb.Symbol, nil
	case KindCharList:
		return va.Text == vb.Text, nil
	case KindPair:
		leftEq, err := s.Equal(va.Left, vb.Left)
		if err != nil || !leftEq {
			return false, err
		}
		return s.Equal(va.Right, vb.Right)
	case KindList:
		if len(va.Elements) != len(vb.Elements) {
			return false, nil
		}
		for i := range va.Elements {
			eq, err := s.Equal(va.Elements[i], vb.Elements[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case KindRange:
		startEq, err := s.Equal(va.Left, vb.Left)
		if err != nil || !startEq {
			return false, err
		}
		return s.Equal(va.Right, vb.Right)
	case KindConcatenation:
		ca, err := s.MaterializeCharacters(a)
		if err != nil {
			return false, err
		}
		cb, err := s.MaterializeCharacters(b)
		if err != nil {
			return false, err
		}
		return ca == cb, nil
	case KindExpression:
		return va.InstructionIndex == vb.InstructionIndex, nil
	case KindExternal:
		return va.ExternalID == vb.ExternalID, nil
	case KindPartial:
		leftEq, err := s.Equal(va.Left, vb.Left)
		if err != nil || !leftEq {
			return false, err
		}
		return s.Equal(va.Right, vb.Right)
	default:
		return false, nil
	}
}
