package repository

// Ids come from :Sequence counters because the store has no auto-increment.

const createNodeCypher = `
MERGE (seq:Sequence {name: "place"})
ON CREATE SET seq.value = 0
SET seq.value = seq.value + 1
WITH seq.value AS nextId
CREATE (n:Place {id: nextId, name: $name, lat: $lat, lng: $lng})
RETURN n.id AS id, n.name AS name, n.lat AS lat, n.lng AS lng
`

const importNodeCypher = `
MERGE (n:Place {id: $id})
SET n.name = $name, n.lat = $lat, n.lng = $lng
WITH n
MERGE (seq:Sequence {name: "place"})
ON CREATE SET seq.value = 0
SET seq.value = CASE WHEN seq.value < $id THEN $id ELSE seq.value END
RETURN n.id AS id
`

const updateNodeCypher = `
MATCH (n:Place {id: $id})
SET n.name = $name, n.lat = $lat, n.lng = $lng
RETURN n.id AS id, n.name AS name, n.lat AS lat, n.lng AS lng
`

const deleteNodeCypher = `
MATCH (n:Place {id: $id})
DETACH DELETE n
RETURN count(*) AS deleted
`

const listNodesCypher = `
MATCH (n:Place)
RETURN n.id AS id, n.name AS name, n.lat AS lat, n.lng AS lng
ORDER BY n.id
`

const createEdgeCypher = `
MATCH (a:Place {id: $from})
MATCH (b:Place {id: $to})
MERGE (seq:Sequence {name: "connection"})
ON CREATE SET seq.value = 0
SET seq.value = seq.value + 1
CREATE (a)-[c:CONNECTS {id: seq.value, weight: $weight}]->(b)
RETURN c.id AS id, a.id AS fromId, b.id AS toId, c.weight AS weight
`

// Imports match an existing connection on endpoints and weight, so a dataset
// can be loaded again without duplicating relationships. The sequence only
// advances for relationships the statement creates.
const importEdgeCypher = `
MATCH (a:Place {id: $from})
MATCH (b:Place {id: $to})
MERGE (seq:Sequence {name: "connection"})
ON CREATE SET seq.value = 0
MERGE (a)-[c:CONNECTS {weight: $weight}]->(b)
ON CREATE SET seq.value = seq.value + 1
SET c.id = coalesce(c.id, seq.value)
RETURN c.id AS id, a.id AS fromId, b.id AS toId, c.weight AS weight
`

const listEdgesCypher = `
MATCH (a:Place)-[c:CONNECTS]->(b:Place)
RETURN c.id AS id, a.id AS fromId, b.id AS toId, c.weight AS weight
ORDER BY c.id
`
