/*
Package registry maps collection labels to entity factories.

Storage providers return raw records; reconstructing a typed entity from a
raw record requires knowing which concrete type backs a collection. The
registry holds that mapping explicitly (label -> factory), usually populated
from init functions next to the entity definitions:

	func init() {
	    registry.Register[Player]("players")
	}

Labels without a registered factory are served as raw records.
*/
package registry
